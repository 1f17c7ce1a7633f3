package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/config"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/storage/memory"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
	userTypes "github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/urfave/cli/v3"
)

const tomlCatalog = `
[[makers]]
name = "Toyota"

  [[makers.models]]
  name = "Corolla"

    [[makers.models.trims]]
    name = "GR"
    year = 2023

    [[makers.models.trims]]
    name = "Hybrid"
    year = 2022

[[makers]]
name = "Skoda"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func memoryOpener(store *memory.Store, mediaSvc *media.Service) Opener {
	return func(context.Context, string) (*Backend, error) {
		cfg := &config.Config{}
		cfg.Import.BatchSize = 2
		return &Backend{
			Config:  cfg,
			Storage: store,
			Media:   mediaSvc,
			Close:   func() error { return nil },
		}, nil
	}
}

func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "autohouse-admin", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"autohouse-admin"}, args...))
}

func TestReadCatalogFile(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		makers, err := ReadCatalogFile(writeFile(t, "catalog.toml", tomlCatalog))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(makers) != 2 || makers[0].Name != "Toyota" || len(makers[0].Models[0].Trims) != 2 {
			t.Errorf("unexpected makers: %+v", makers)
		}
		if makers[0].Models[0].Trims[1].Year != 2022 {
			t.Errorf("expected year 2022, got %d", makers[0].Models[0].Trims[1].Year)
		}
	})

	t.Run("json array", func(t *testing.T) {
		makers, err := ReadCatalogFile(writeFile(t, "catalog.json", `[{"name":"BMW","models":[{"name":"X5"}]}]`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(makers) != 1 || makers[0].Models[0].Name != "X5" {
			t.Errorf("unexpected makers: %+v", makers)
		}
	})

	t.Run("json object", func(t *testing.T) {
		makers, err := ReadCatalogFile(writeFile(t, "catalog.JSON", ` {"makers":[{"name":"Audi"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(makers) != 1 || makers[0].Name != "Audi" {
			t.Errorf("unexpected makers: %+v", makers)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		if _, err := ReadCatalogFile(writeFile(t, "catalog.yaml", "makers: []")); err == nil {
			t.Error("expected error for yaml file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		if _, err := ReadCatalogFile(writeFile(t, "catalog.toml", "[[makers]\nname=")); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestReadUsernames(t *testing.T) {
	in := "a@example.com\n\n  # staff\n b@example.com \n"
	got, err := ReadUsernames(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("unexpected usernames: %q", got)
	}
}

func TestRunner_ImportDryRun(t *testing.T) {
	out := &bytes.Buffer{}
	opened := false
	r := NewRunner(RunnerOpts{
		Logger: quietLogger(),
		Output: out,
		Open: func(context.Context, string) (*Backend, error) {
			opened = true
			return nil, nil
		},
	})

	path := writeFile(t, "catalog.toml", tomlCatalog)
	if err := run(t, r, "import", "--file", path, "--dry-run"); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if opened {
		t.Error("dry run must not open the configured backend")
	}
	if !strings.Contains(out.String(), "2 makers in catalog") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunner_ImportUsesBackend(t *testing.T) {
	store := memory.New()
	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: quietLogger(), Output: out, Open: memoryOpener(store, nil)})

	path := writeFile(t, "catalog.toml", tomlCatalog)
	if err := run(t, r, "import", "--file", path); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	model, err := store.GetModelByNames(context.Background(), "Toyota", "Corolla")
	if err != nil {
		t.Fatalf("model not imported: %v", err)
	}
	if len(model.Trims) != 2 {
		t.Errorf("expected 2 trims, got %d", len(model.Trims))
	}

	if err := run(t, r, "import", "--file", path); err == nil {
		t.Error("expected duplicate maker error on second import")
	}
}

func TestRunner_BulkRegister(t *testing.T) {
	store := memory.New()
	admin := userTypes.User{Username: "admin@example.com", Password: "x", Enabled: true,
		Roles: userTypes.InheritedRoles(userTypes.RoleAdmin)}
	if err := store.CreateUser(context.Background(), &admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: quietLogger(), Output: out, Open: memoryOpener(store, nil)})

	list := writeFile(t, "users.txt", "c@example.com\nadmin@example.com\n")
	err := run(t, r, "bulk-register", "--admin-id", admin.ID,
		"--username", "a@example.com", "-u", "b@example.com", "--file", list)
	if err != nil {
		t.Fatalf("bulk-register failed: %v", err)
	}

	for _, name := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("expected %s in output %q", name, out.String())
		}
		if ok, _ := store.ExistsByUsername(context.Background(), name); !ok {
			t.Errorf("expected %s to be registered", name)
		}
	}
	if strings.Count(out.String(), "admin@example.com") != 0 {
		t.Error("existing admin must be skipped")
	}
}

func TestRunner_BulkRegisterNeedsUsernames(t *testing.T) {
	r := NewRunner(RunnerOpts{Logger: quietLogger(), Output: io.Discard, Open: memoryOpener(memory.New(), nil)})
	if err := run(t, r, "bulk-register", "--admin-id", "x"); err == nil {
		t.Error("expected error without usernames")
	}
}

func TestRunner_SweepMedia(t *testing.T) {
	store := memory.New()
	mediaSvc := media.NewService(store, media.NewRegistry(media.NewFolderBackend(t.TempDir())), nil)
	_, err := mediaSvc.Store(context.Background(), mediaTypes.StoreRequest{
		Data:        []byte("x"),
		FileKey:     "orphan.jpg",
		Function:    mediaTypes.FunctionOfferImage,
		ReferenceID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	out := &bytes.Buffer{}
	r := NewRunner(RunnerOpts{Logger: quietLogger(), Output: out, Open: memoryOpener(store, mediaSvc)})
	if err := run(t, r, "sweep-media"); err != nil {
		t.Fatalf("sweep-media failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 orphaned files removed") {
		t.Errorf("unexpected output %q", out.String())
	}
}
