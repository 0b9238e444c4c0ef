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

package migrate

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
	"github.com/NVIDIA/harbor-prepare/pkg/version"
)

//go:embed templates/harbor.yml.v1.9.0.tmpl
var harborV190Template string

// Registry maps input versions to the migrator that accepts them.
type Registry struct {
	migrators map[version.Tag]*Migrator
	mu        sync.RWMutex
}

// NewRegistry creates a new empty Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		migrators: make(map[version.Tag]*Migrator),
	}
}

// DefaultRegistry returns a registry with the built-in migrators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(New(version.NewSet("1.8.0"), "1.9.0", harborV190Template))
	return r
}

// Register adds m under each of its accepted versions. It fails if m accepts
// no version or a version that already has a migrator.
func (r *Registry) Register(m *Migrator) error {
	if m == nil || len(m.Accepts) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "migrator must accept at least one version")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tag := range m.Accepts {
		if existing := r.lookup(tag); existing != nil {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("version %s already handled by migrator %s", tag, existing),
				map[string]any{"version": tag.String()})
		}
	}
	for _, tag := range m.Accepts {
		r.migrators[tag] = m
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(m *Migrator) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// For returns the migrator that accepts tag.
func (r *Registry) For(tag version.Tag) (*Migrator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m := r.lookup(tag); m != nil {
		return m, nil
	}
	return nil, errors.NewWithContext(errors.ErrCodeVersion,
		fmt.Sprintf("no migrator accepts version %s, acceptable versions are %s", tag, r.acceptedLocked()),
		map[string]any{"version": tag.String()})
}

// Migrate detects the version declared by the configuration at in and runs
// the matching migrator.
func (r *Registry) Migrate(ctx context.Context, in, out string) error {
	m, err := r.Detect(in)
	if err != nil {
		return err
	}
	return m.Migrate(ctx, in, out)
}

// Detect returns the migrator for the version declared by the
// configuration at in.
func (r *Registry) Detect(in string) (*Migrator, error) {
	mapping, err := settings.FromFile(in)
	if err != nil {
		return nil, err
	}
	tag, err := mapping.Version()
	if err != nil {
		return nil, err
	}
	return r.For(tag)
}

// Accepted returns every version with a registered migrator, sorted.
func (r *Registry) Accepted() version.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.acceptedLocked()
}

// List returns the registered migrators ordered by their lowest accepted version.
func (r *Registry) List() []*Migrator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Migrator]bool, len(r.migrators))
	list := make([]*Migrator, 0, len(r.migrators))
	for _, tag := range r.acceptedLocked() {
		m := r.migrators[tag]
		if seen[m] {
			continue
		}
		seen[m] = true
		list = append(list, m)
	}
	return list
}

// Count returns the number of registered versions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.migrators)
}

func (r *Registry) lookup(tag version.Tag) *Migrator {
	return r.migrators[tag]
}

func (r *Registry) acceptedLocked() version.Set {
	tags := make([]version.Tag, 0, len(r.migrators))
	for tag := range r.migrators {
		tags = append(tags, tag)
	}
	version.Sort(tags)
	return version.Set(tags)
}
