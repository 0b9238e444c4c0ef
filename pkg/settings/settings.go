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

package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"

	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/serializer"
	"github.com/NVIDIA/harbor-prepare/pkg/version"
)

// Mapping is a set of settings keyed by name. Values are scalars (string,
// bool, int, float) or, for structured inputs, nested mappings and lists.
// Operations that add keys return a new Mapping and leave the receiver as is.
type Mapping map[string]any

// FromFile parses a YAML or JSON settings file into a Mapping.
// An empty file yields an empty Mapping. Nested mappings are returned as
// plain map[string]any values.
func FromFile(path string) (Mapping, error) {
	m, err := serializer.FromFile[Mapping](path)
	if err != nil {
		return nil, err
	}
	if *m == nil {
		return Mapping{}, nil
	}
	// yaml.v3 decodes nested mappings into the target's named type.
	return m.Clone(), nil
}

// Clone returns a copy of m. Nested mappings and lists are copied too, so the
// clone can be modified freely. Nested Mapping values become map[string]any.
func (m Mapping) Clone() Mapping {
	return Mapping(cloneMap(m))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Mapping:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Merge returns a new Mapping with the keys of m overridden by each of
// overrides in order. Nested mappings are merged key by key.
func (m Mapping) Merge(overrides ...map[string]any) (Mapping, error) {
	out := cloneMap(m)
	if out == nil {
		out = map[string]any{}
	}
	for _, o := range overrides {
		if len(o) == 0 {
			continue
		}
		// mergo merges nested maps in place; hand it a private copy.
		if err := mergo.Merge(&out, cloneMap(o), mergo.WithOverride); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to merge settings", err)
		}
	}
	return Mapping(out), nil
}

// Has reports whether key is present, regardless of its value.
func (m Mapping) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns the value of key rendered as a string. A missing key or a
// nil value yields "" and false.
func (m Mapping) String(key string) (string, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Version returns the schema version declared under the _version key.
func (m Mapping) Version() (version.Tag, error) {
	tag, err := version.FromValue(m[defaults.VersionKey])
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeVersion,
			"configuration does not declare a usable version", err,
			map[string]any{"key": defaults.VersionKey})
	}
	return tag, nil
}

// Keys returns the top-level keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseOverrides parses key=value pairs as given on the command line.
// Values "true" and "false" become booleans and canonical integer literals
// become ints; everything else, including "007" and "+42", stays a string.
// The value may itself contain '='.
func ParseOverrides(pairs []string) (Mapping, error) {
	out := make(Mapping, len(pairs))
	for _, p := range pairs {
		key, value, found := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid override %q (expected key=value)", p),
				map[string]any{"override": p})
		}
		out[key] = coerce(value)
	}
	return out, nil
}

func coerce(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil && strconv.Itoa(i) == s {
		return i
	}
	return s
}
