package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

// catalogFile is the TOML layout:
//
//	[[makers]]
//	name = "Toyota"
//	  [[makers.models]]
//	  name = "Corolla"
//	    [[makers.models.trims]]
//	    name = "GR"
//	    year = 2023
type catalogFile struct {
	Makers []catalog.MakerImportRequest `toml:"makers" json:"makers"`
}

// ReadCatalogFile parses a catalog by extension. JSON files may hold either a
// bare array of makers or an object with a makers key.
func ReadCatalogFile(path string) ([]catalog.MakerImportRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var f catalogFile
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return f.Makers, nil
	case ".json":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "[") {
			var makers []catalog.MakerImportRequest
			if err := json.Unmarshal(data, &makers); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			return makers, nil
		}
		var f catalogFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return f.Makers, nil
	default:
		return nil, fmt.Errorf("unsupported catalog file type %q", filepath.Ext(path))
	}
}

// ReadUsernames returns the non-blank, non-comment lines of r.
func ReadUsernames(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, scanner.Err()
}
