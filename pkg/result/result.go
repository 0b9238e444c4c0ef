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

package result

import (
	"fmt"
	"time"
)

// Result records the outcome of one preparation step.
type Result struct {
	// Name identifies the step (e.g., "core", "migrate").
	Name string `json:"name" yaml:"name"`

	// Files lists the paths of generated files.
	Files []string `json:"files" yaml:"files"`

	// Size is the total size in bytes of the generated files.
	Size int64 `json:"size_bytes" yaml:"size_bytes"`

	// Checksum is the path of the checksums file, when one was generated.
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`

	// Duration is the time the step took.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Success reports whether the step completed.
	Success bool `json:"success" yaml:"success"`

	// Errors holds error messages from a failed step.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata carries step specific values such as the cache driver.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	sizes map[string]int64
}

// New creates an empty result for the named step.
func New(name string) *Result {
	return &Result{
		Name:     name,
		Files:    make([]string, 0),
		Errors:   make([]string, 0),
		Metadata: make(map[string]string),
	}
}

// AddFile records a generated file and its size.
func (r *Result) AddFile(path string, size int64) {
	if r.sizes == nil {
		r.sizes = make(map[string]int64)
	}
	r.Files = append(r.Files, path)
	r.sizes[path] = size
	r.Size += size
}

// UpdateFile records the new size of a file that was rewritten after it was
// added. Unknown paths are added.
func (r *Result) UpdateFile(path string, size int64) {
	old, ok := r.sizes[path]
	if !ok {
		r.AddFile(path, size)
		return
	}
	r.sizes[path] = size
	r.Size += size - old
}

// AddError records an error; nil is ignored.
func (r *Result) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
}

// SetMetadata records a step specific key/value pair.
func (r *Result) SetMetadata(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// MarkSuccess marks the step as completed.
func (r *Result) MarkSuccess() {
	r.Success = true
}

// Summary returns a one line description of the result.
func (r *Result) Summary() string {
	status := "succeeded"
	if !r.Success {
		status = "failed"
	}
	return fmt.Sprintf("%s %s: %d files (%s) in %v",
		r.Name,
		status,
		len(r.Files),
		formatBytes(r.Size),
		r.Duration.Round(time.Millisecond),
	)
}

// formatBytes formats bytes into human-readable format.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
