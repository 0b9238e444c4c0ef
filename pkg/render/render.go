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

package render

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"text/template"
	"time"

	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/fsutil"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
)

// TemplateFunc retrieves template content by name.
type TemplateFunc func(name string) (string, bool)

// NewTemplateGetter creates a TemplateFunc from a map of template names to content.
func NewTemplateGetter(templates map[string]string) TemplateFunc {
	return func(name string) (string, bool) {
		tmpl, ok := templates[name]
		return tmpl, ok
	}
}

// FSTemplates creates a TemplateFunc that reads templates from fsys, with
// names interpreted as slash-separated paths.
//
//	//go:embed templates
//	var templatesFS embed.FS
//
//	sub, _ := fs.Sub(templatesFS, "templates")
//	r := render.NewRenderer(render.FSTemplates(sub))
func FSTemplates(fsys fs.FS) TemplateFunc {
	return func(name string) (string, bool) {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// Descriptor identifies a template and where its rendered output goes.
type Descriptor struct {
	// Name is the template name passed to the renderer's TemplateFunc.
	Name string

	// Destination is the path of the rendered file.
	Destination string

	// Perm is the mode of the rendered file; zero means defaults.FilePerm.
	Perm os.FileMode
}

// Renderer renders templates against a settings mapping.
//
// Rendering is strict: a placeholder that names a key absent from the mapping
// fails with ErrCodeTemplate instead of producing empty output. Templates use
// Go template syntax with the sprig function library; optional sections are
// guarded with hasKey, e.g. {{- if hasKey . "https" }}.
type Renderer struct {
	templates TemplateFunc
}

// NewRenderer creates a new renderer with the given template source.
func NewRenderer(templates TemplateFunc) *Renderer {
	return &Renderer{
		templates: templates,
	}
}

// RenderString renders the named template and returns the result.
func (r *Renderer) RenderString(name string, data settings.Mapping) (string, error) {
	if r == nil || r.templates == nil {
		return "", errors.New(errors.ErrCodeInternal, "renderer has no template source")
	}

	content, ok := r.templates(name)
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeNotFound,
			fmt.Sprintf("template %s not found", name),
			map[string]any{"template": name})
	}

	tmpl, err := template.New(name).
		Funcs(FuncMap()).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTemplate,
			fmt.Sprintf("failed to parse template %s", name), err,
			map[string]any{"template": name})
	}

	// sprig's dict helpers only accept plain map[string]any values.
	values := map[string]any(data.Clone())
	if values == nil {
		values = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeTemplate,
			fmt.Sprintf("failed to execute template %s", name), err,
			map[string]any{"template": name})
	}

	return buf.String(), nil
}

// Render renders desc's template and writes it to desc.Destination,
// overwriting any existing file. Output is rendered in memory first and
// written atomically, so a failed render leaves the destination untouched.
func (r *Renderer) Render(desc Descriptor, data settings.Mapping) error {
	start := time.Now()

	if desc.Destination == "" {
		renderTotal.WithLabelValues(desc.Name, statusError).Inc()
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"render destination cannot be empty",
			map[string]any{"template": desc.Name})
	}

	content, err := r.RenderString(desc.Name, data)
	if err != nil {
		renderTotal.WithLabelValues(desc.Name, statusError).Inc()
		return err
	}

	perm := desc.Perm
	if perm == 0 {
		perm = defaults.FilePerm
	}

	if err := fsutil.WriteFileAtomic(desc.Destination, []byte(content), perm); err != nil {
		renderTotal.WithLabelValues(desc.Name, statusError).Inc()
		return err
	}

	renderTotal.WithLabelValues(desc.Name, statusSuccess).Inc()
	renderDuration.Observe(time.Since(start).Seconds())

	slog.Info("rendered configuration",
		"template", desc.Name,
		"destination", desc.Destination,
		"size_bytes", len(content),
	)
	return nil
}
