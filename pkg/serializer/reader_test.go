package serializer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/harbor-prepare/pkg/errors"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"harbor.yml", FormatYAML},
		{"harbor.YAML", FormatYAML},
		{"settings.json", FormatJSON},
		{"out.table", FormatTable},
		{"out.txt", FormatTable},
		{"harbor.cfg", FormatYAML},
		{"", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestNewReader(t *testing.T) {
	_, err := NewReader(FormatYAML, strings.NewReader("a: b"))
	assert.NoError(t, err)

	_, err = NewReader(FormatTable, strings.NewReader(""))
	assert.Error(t, err)

	_, err = NewReader(Format("xml"), strings.NewReader(""))
	assert.Error(t, err)
}

func TestReader_DeserializeYAML(t *testing.T) {
	input := "hostname: reg.example.com\nhttp:\n  port: 80\n_version: 1.8.0\nenabled: true\n"
	r, err := NewReader(FormatYAML, strings.NewReader(input))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, r.Deserialize(&got))

	assert.Equal(t, "reg.example.com", got["hostname"])
	assert.Equal(t, "1.8.0", got["_version"])
	assert.Equal(t, true, got["enabled"])
	http, ok := got["http"].(map[string]any)
	require.True(t, ok, "nested mapping should decode to map[string]any")
	assert.Equal(t, 80, http["port"])
}

func TestReader_DeserializeJSON(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`{"redis_host":"redis:6379"}`))
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, r.Deserialize(&got))
	assert.Equal(t, "redis:6379", got["redis_host"])
}

func TestReader_DeserializeMalformed(t *testing.T) {
	r, err := NewReader(FormatYAML, strings.NewReader("key: [unclosed"))
	require.NoError(t, err)

	var got map[string]any
	err = r.Deserialize(&got)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeParse, errors.CodeOf(err))
}

func TestReader_DeserializeNil(t *testing.T) {
	var r *Reader
	assert.Error(t, r.Deserialize(&struct{}{}))
	assert.NoError(t, r.Close())

	r = &Reader{format: FormatYAML}
	assert.Error(t, r.Deserialize(&struct{}{}))
}

func TestReader_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	r, err := NewFileReader(FormatYAML, path)
	require.NoError(t, err)
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harbor.yml")
	require.NoError(t, os.WriteFile(path, []byte("_version: 1.8.0\nhostname: h\n"), 0o600))

	got, err := FromFile[map[string]any](path)
	require.NoError(t, err)
	assert.Equal(t, "h", (*got)["hostname"])
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromFile[map[string]any](filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeIO))

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("a: b: c"), 0o600))
	_, err = FromFile[map[string]any](bad)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParse))

	table := filepath.Join(dir, "out.table")
	require.NoError(t, os.WriteFile(table, []byte("x"), 0o600))
	_, err = FromFile[map[string]any](table)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}
