// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/harbor-prepare/pkg/errors"
)

// FormatFromPath determines the serialization format based on file extension.
// Supported extensions:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .table, .txt → FormatTable
//
// Returns FormatYAML as default for unknown extensions, since registry
// configuration files are YAML regardless of name.
// Extension matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".table"), strings.HasSuffix(lowerPath, ".txt"):
		return FormatTable
	default:
		slog.Debug("unknown file extension, defaulting to YAML", "filePath", filePath)
		return FormatYAML
	}
}

// Reader handles deserialization of structured data from JSON or YAML.
//
// Close must be called to release the file handle when using NewFileReader.
// It is safe to call Close multiple times.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from an io.Reader source.
//
// Returns error if format is unknown or is FormatTable, which is write-only.
// If input implements io.Closer, Close will close it.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown format: %s", format))
	}

	if format == FormatTable {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "table format does not support deserialization")
	}

	r := &Reader{
		format: format,
		input:  input,
	}

	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}

	return r, nil
}

// NewFileReader creates a new Reader that reads from a local file.
// Failure to open the file is reported with ErrCodeIO.
func NewFileReader(format Format, filePath string) (*Reader, error) {
	if format.IsUnknown() || format == FormatTable {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("format %s does not support deserialization", format))
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeIO, "failed to open file", err,
			map[string]any{"path": filePath})
	}

	return &Reader{
		format: format,
		input:  file,
		closer: file,
	}, nil
}

// Deserialize reads data from the input source and unmarshals it into v,
// which must be a pointer. Malformed input is reported with ErrCodeParse.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return errors.New(errors.ErrCodeInternal, "reader is nil")
	}

	if r.input == nil {
		return errors.New(errors.ErrCodeInternal, "input source is nil")
	}

	switch r.format {
	case FormatJSON:
		decoder := json.NewDecoder(r.input)
		if err := decoder.Decode(v); err != nil {
			return errors.Wrap(errors.ErrCodeParse, "failed to decode JSON", err)
		}
		return nil

	case FormatYAML:
		decoder := yaml.NewDecoder(r.input)
		if err := decoder.Decode(v); err != nil {
			// An empty document decodes to nothing.
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(errors.ErrCodeParse, "failed to decode YAML", err)
		}
		return nil

	default:
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported format for deserialization: %s", r.format))
	}
}

// Close releases any resources held by the Reader.
// Safe to call on a nil Reader and more than once.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}

	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil // Prevent double-close
		return err
	}
	return nil
}

// FromFile reads and deserializes a local file into type T. The format is
// detected from the file extension.
//
// Example:
//
//	cfg, err := FromFile[map[string]any]("harbor.yml")
func FromFile[T any](path string) (*T, error) {
	fileFormat := FormatFromPath(path)
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	ser, err := NewFileReader(fileFormat, path)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "error", closeErr)
		}
	}()

	var r T
	if err := ser.Deserialize(&r); err != nil {
		return nil, errors.WrapWithContext(errors.CodeOf(err),
			fmt.Sprintf("failed to deserialize object from %q", path), err,
			map[string]any{"path": path})
	}

	slog.Debug("successfully loaded object from file",
		slog.String("path", path),
	)

	return &r, nil
}
