package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

var files = []string{"hazards.yaml", "countries.yaml", "predictions.yaml", "guides.yaml"}

// LoadEmbedded builds the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS reads hazards.yaml, countries.yaml, predictions.yaml and guides.yaml
// from fsys. Missing files are treated as empty; unknown fields are rejected.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	var d Data
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", name, err)
		}
		if err := decode(raw, &d); err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", name, err)
		}
	}
	return New(d)
}

func decode(raw []byte, d *Data) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
