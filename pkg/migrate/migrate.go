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
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/render"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
	"github.com/NVIDIA/harbor-prepare/pkg/version"
)

// Migrator converts a configuration file from one of its accepted versions
// to Target in a single step.
type Migrator struct {
	// Accepts lists the input versions this migrator handles.
	Accepts version.Set

	// Target is the version written by the migrator.
	Target version.Tag

	// Template is the output template, rendered against the parsed input.
	Template string
}

// New creates a migrator from accepted versions to target using tmpl.
func New(accepts version.Set, target version.Tag, tmpl string) *Migrator {
	return &Migrator{
		Accepts:  accepts,
		Target:   target,
		Template: tmpl,
	}
}

// Name returns the template name used for this migrator.
func (m *Migrator) Name() string {
	return fmt.Sprintf("harbor.yml.v%s", m.Target)
}

// String returns a description such as "[1.8.0] -> 1.9.0".
func (m *Migrator) String() string {
	return fmt.Sprintf("%s -> %s", m.Accepts, m.Target)
}

// Migrate reads the configuration at in, checks its declared version and
// writes the migrated configuration to out. The output file is only written
// when every step succeeds.
func (m *Migrator) Migrate(ctx context.Context, in, out string) error {
	start := time.Now()

	mapping, err := m.load(ctx, in)
	if err != nil {
		migrateTotal.WithLabelValues(m.Target.String(), statusError).Inc()
		return err
	}

	if err := m.renderer().Render(render.Descriptor{
		Name:        m.Name(),
		Destination: out,
		Perm:        defaults.FilePerm,
	}, mapping); err != nil {
		migrateTotal.WithLabelValues(m.Target.String(), statusError).Inc()
		return err
	}

	migrateTotal.WithLabelValues(m.Target.String(), statusSuccess).Inc()
	migrateDuration.Observe(time.Since(start).Seconds())

	slog.Info("configuration migrated",
		"input", in,
		"output", out,
		"target", m.Target.String(),
	)
	return nil
}

// Render performs Migrate without writing the result and returns the
// migrated configuration.
func (m *Migrator) Render(ctx context.Context, in string) (string, error) {
	mapping, err := m.load(ctx, in)
	if err != nil {
		return "", err
	}
	return m.renderer().RenderString(m.Name(), mapping)
}

// Check returns an ErrCodeVersion error unless tag is accepted.
func (m *Migrator) Check(tag version.Tag) error {
	if m.Accepts.Contains(tag) {
		return nil
	}
	return errors.NewWithContext(errors.ErrCodeVersion,
		fmt.Sprintf("the version of the input configuration is %s, acceptable versions are %s", tag, m.Accepts),
		map[string]any{
			"version":    tag.String(),
			"acceptable": m.Accepts.Strings(),
		})
}

func (m *Migrator) load(ctx context.Context, in string) (settings.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
	}

	mapping, err := settings.FromFile(in)
	if err != nil {
		return nil, err
	}

	tag, err := mapping.Version()
	if err != nil {
		return nil, err
	}
	if err := m.Check(tag); err != nil {
		return nil, err
	}

	slog.Debug("input version accepted",
		"input", in,
		"version", tag.String(),
		"target", m.Target.String(),
	)
	return mapping, nil
}

func (m *Migrator) renderer() *render.Renderer {
	return render.NewRenderer(render.NewTemplateGetter(map[string]string{
		m.Name(): m.Template,
	}))
}
