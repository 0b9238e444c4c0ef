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

package version

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Error types for version tag failures
var (
	ErrMissingVersion = errors.New("version is missing")
	ErrEmptyVersion   = errors.New("version string is empty")
	ErrInvalidType    = errors.New("version has an unsupported type")
)

// Tag is the schema version declared by a configuration file.
type Tag string

// FromValue converts a decoded settings value into a Tag. YAML decodes an
// unquoted "1.8" as a float and "2" as an int; both are accepted.
func FromValue(v any) (Tag, error) {
	var s string
	switch val := v.(type) {
	case nil:
		return "", ErrMissingVersion
	case string:
		s = val
	case int:
		s = strconv.Itoa(val)
	case int64:
		s = strconv.FormatInt(val, 10)
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		s = val.String()
	default:
		return "", fmt.Errorf("%w: %T", ErrInvalidType, v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyVersion
	}
	return Tag(s), nil
}

// String returns the tag as written.
func (t Tag) String() string {
	return string(t)
}

// Equal reports whether t and other are the same tag. Tags are compared as
// written, so "v1.8.0" and "1.8" do not equal "1.8.0".
func (t Tag) Equal(other Tag) bool {
	return t == other
}

// Set is a fixed list of acceptable versions.
type Set []Tag

// NewSet builds a Set from version strings.
func NewSet(tags ...string) Set {
	s := make(Set, 0, len(tags))
	for _, t := range tags {
		s = append(s, Tag(t))
	}
	return s
}

// Contains reports whether tag equals any member of the set.
func (s Set) Contains(tag Tag) bool {
	for _, t := range s {
		if t.Equal(tag) {
			return true
		}
	}
	return false
}

// Strings returns the members in declaration order.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, t := range s {
		out = append(out, string(t))
	}
	return out
}

// String renders the set for diagnostics, e.g. "[1.8.0, 1.8.1]".
func (s Set) String() string {
	return "[" + strings.Join(s.Strings(), ", ") + "]"
}

// Sort orders tags ascending. Semantic versions sort before other strings,
// which sort lexically.
func Sort(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		a, errA := semver.NewVersion(string(tags[i]))
		b, errB := semver.NewVersion(string(tags[j]))
		switch {
		case errA == nil && errB == nil:
			return a.LessThan(b)
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return tags[i] < tags[j]
		}
	})
}
