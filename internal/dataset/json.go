package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

//go:embed data/people.json
var embeddedPeople []byte

// EmbeddedSource serves the dataset compiled into the binary.
type EmbeddedSource struct{}

// Name implements Source.
func (EmbeddedSource) Name() string { return "embedded" }

// Load implements Source.
func (EmbeddedSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeJSON(bytes.NewReader(embeddedPeople))
}

// FileSource reads a JSON array of records from disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (FileSource) Name() string { return "file" }

// Load implements Source.
func (s FileSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	return decodeJSON(f)
}

func decodeJSON(r io.Reader) ([]Record, error) {
	var records []Record
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid dataset json: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
