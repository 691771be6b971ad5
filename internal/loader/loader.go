// Package loader reads the A/B test dataset file into raw records and a variation catalog.
package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/ratechart/schema"
)

// ErrInvalidDataset is returned when the input is not an object with a data list.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is a decoded dataset file.
type Dataset struct {
	Source  string             // Path the dataset was read from, if any
	Digest  string             // Hex sha256 of the raw bytes
	Catalog schema.Catalog     // Variation metadata
	Records []schema.RawRecord // Records that decoded cleanly
	Skipped []error            // Records that could not be decoded
}

// envelope is the top level of the dataset; fields stay raw so each record decodes on its own.
type envelope struct {
	Variations json.RawMessage `json:"variations"`
	Data       json.RawMessage `json:"data"`
}

// Load reads and decodes the dataset at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(f)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// Read decodes a dataset from r.
func Read(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(data)
}

// Decode parses dataset bytes. Structural problems fail fast with ErrInvalidDataset;
// individual records that do not decode are skipped and listed in Skipped.
func Decode(data []byte) (*Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidDataset)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data list", ErrInvalidDataset)
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(env.Data, &rawRecords); err != nil {
		return nil, fmt.Errorf("%w: data must be a list: %v", ErrInvalidDataset, err)
	}

	catalog, err := decodeCatalog(env.Variations)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(trimmed)
	ds := &Dataset{
		Digest:  fmt.Sprintf("%x", sum),
		Catalog: catalog,
		Records: make([]schema.RawRecord, 0, len(rawRecords)),
	}
	for i, raw := range rawRecords {
		var rec schema.RawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			ds.Skipped = append(ds.Skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// decodeCatalog builds the catalog from the optional variations list.
// An absent or empty list falls back to the default catalog.
func decodeCatalog(raw json.RawMessage) (schema.Catalog, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return schema.DefaultCatalog(), nil
	}
	var variations []schema.RawVariation
	if err := json.Unmarshal(raw, &variations); err != nil {
		return schema.Catalog{}, fmt.Errorf("%w: variations: %v", ErrInvalidDataset, err)
	}
	if len(variations) == 0 {
		return schema.DefaultCatalog(), nil
	}
	return schema.CatalogFromRaw(variations), nil
}
