package catalog

type Maker struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Models []Model `json:"models"`
}

type Model struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	MakerID int64  `json:"maker_id"`
	Trims   []Trim `json:"trims,omitempty"`
}

type Trim struct {
	ID      int64  `json:"id"`
	Year    int    `json:"year"`
	Name    string `json:"name"`
	ModelID int64  `json:"model_id"`
}

type MakerCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type ModelCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// MakerImportRequest is one maker of a bulk catalog import.
type MakerImportRequest struct {
	Name   string               `json:"name" toml:"name" validate:"required,min=1,max=64"`
	Models []ModelImportRequest `json:"models" toml:"models" validate:"dive"`
}

type ModelImportRequest struct {
	Name  string              `json:"name" toml:"name" validate:"required,min=1,max=64"`
	Trims []TrimImportRequest `json:"trims" toml:"trims" validate:"dive"`
}

type TrimImportRequest struct {
	Year int    `json:"year" toml:"year" validate:"required,min=1886,max=2100"`
	Name string `json:"name" toml:"name" validate:"required,min=1,max=128"`
}

type ImportResult struct {
	MakerCount int `json:"maker_count"`
}
