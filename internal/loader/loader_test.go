package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{
  "variations": [
    {"name": "Original"},
    {"id": 10001, "name": "Variation A"}
  ],
  "data": [
    {"date": "2024-01-01", "visits": {"0": 100, "10001": 100}, "conversions": {"0": 10, "10001": 50}},
    {"date": "2024-01-02", "visits": {"0": "many"}, "conversions": {}},
    {"date": "2024-01-03", "visits": {"0": 200}, "conversions": {"0": 40}}
  ]
}`

func TestDecode(t *testing.T) {
	ds, err := Decode([]byte(sampleDataset))
	require.NoError(t, err)

	assert.Len(t, ds.Records, 2)
	require.Len(t, ds.Skipped, 1)
	assert.Contains(t, ds.Skipped[0].Error(), "record 1")

	assert.Equal(t, []string{"0", "10001"}, ds.Catalog.IDs())
	assert.Equal(t, "Variation A", ds.Catalog.Name("10001"))
	assert.Len(t, ds.Digest, 64)
}

func TestDecodeDigestStable(t *testing.T) {
	a, err := Decode([]byte(sampleDataset))
	require.NoError(t, err)
	b, err := Decode([]byte("\n" + sampleDataset + "\n"))
	require.NoError(t, err)
	assert.Equal(t, a.Digest, b.Digest)

	c, err := Decode([]byte(strings.Replace(sampleDataset, "40", "41", 1)))
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest, c.Digest)
}

func TestDecodeDefaultCatalog(t *testing.T) {
	for _, input := range []string{`{"data": []}`, `{"variations": [], "data": []}`, `{"variations": null, "data": []}`} {
		ds, err := Decode([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, 4, ds.Catalog.Len())
		assert.Empty(t, ds.Records)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"array", `[{"date": "2024-01-01"}]`},
		{"string", `"hello"`},
		{"missing data", `{"variations": []}`},
		{"null data", `{"data": null}`},
		{"data not list", `{"data": {"date": "2024-01-01"}}`},
		{"broken json", `{"data": [`},
		{"bad variations", `{"variations": "A,B", "data": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0o600))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Len(t, ds.Records, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidDataset)
}

func TestRead(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleDataset))
	require.NoError(t, err)
	assert.Len(t, ds.Records, 2)
}
