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

package prepare

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/distribution/reference"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/harbor-prepare/pkg/config"
	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/fsutil"
	"github.com/NVIDIA/harbor-prepare/pkg/render"
	"github.com/NVIDIA/harbor-prepare/pkg/result"
	"github.com/NVIDIA/harbor-prepare/pkg/secret"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
)

const (
	// StepName identifies core preparation in results and logs.
	StepName = "core"

	// EnvTemplate is the template for the core environment file.
	EnvTemplate = "core/env.tmpl"

	// AppConfTemplate is the template for the core application config.
	AppConfTemplate = "core/app.conf.tmpl"

	// Cache drivers for the chart repository server.
	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"

	redisHostKey = "redis_host"
	hostnameKey  = "hostname"
)

//go:embed templates
var templatesFS embed.FS

// Templates returns the built-in core templates.
func Templates() render.TemplateFunc {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		// Only fails for an invalid path literal.
		panic(fmt.Sprintf("prepare: invalid embedded template root: %v", err))
	}
	return render.FSTemplates(sub)
}

// CacheDriver returns the chart cache driver for the given redis host:
// "redis" when a host is configured, "memory" otherwise.
func CacheDriver(redisHost string) string {
	if len(redisHost) > 0 {
		return CacheDriverRedis
	}
	return CacheDriverMemory
}

// Features selects optional components whose settings are rendered into the
// core environment.
type Features struct {
	Notary      bool `json:"notary" yaml:"notary"`
	Clair       bool `json:"clair" yaml:"clair"`
	ChartMuseum bool `json:"chartmuseum" yaml:"chartmuseum"`
}

// SecretFunc returns a random string of length n.
type SecretFunc func(n int) (string, error)

// Core prepares the directories and configuration files of the core service.
type Core struct {
	cfg      *config.Config
	renderer *render.Renderer
	secrets  SecretFunc
}

// Option is a functional option for configuring Core.
type Option func(*Core)

// WithRenderer sets the renderer used for core templates.
func WithRenderer(r *render.Renderer) Option {
	return func(c *Core) {
		c.renderer = r
	}
}

// WithSecretFunc sets the generator used for the XSRF key.
func WithSecretFunc(fn SecretFunc) Option {
	return func(c *Core) {
		c.secrets = fn
	}
}

// NewCore creates a Core for the given layout. A nil cfg uses the default layout.
func NewCore(cfg *config.Config, opts ...Option) *Core {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	c := &Core{
		cfg:      cfg,
		renderer: render.NewRenderer(Templates()),
		secrets:  secret.RandomString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prepare creates the core directories and renders the core env and app.conf
// files from mapping. The mapping is not modified.
//
// The PSC and CA download directories are owned by the configured uid/gid;
// the core certificates directory is created without an ownership change.
// The env file receives the mapping plus chart_cache_driver and the with_*
// feature flags. The app.conf file receives uid, gid and a freshly generated
// xsrf_key.
func (c *Core) Prepare(ctx context.Context, mapping settings.Mapping, features Features) (*result.Result, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
	}

	owner := fsutil.OwnedBy(c.cfg.UID(), c.cfg.GID())
	dirs := []struct {
		path  string
		owner *fsutil.Owner
	}{
		{c.cfg.PSCDir(), owner},
		{c.cfg.CADownloadDir(), owner},
		{c.cfg.CoreConfigDir(), nil},
	}
	for _, d := range dirs {
		if err := fsutil.PrepareDir(d.path, d.owner); err != nil {
			return nil, err
		}
	}

	redisHost, err := validate(mapping)
	if err != nil {
		return nil, err
	}
	driver := CacheDriver(redisHost)

	envData, err := mapping.Merge(map[string]any{
		"chart_cache_driver": driver,
		"with_notary":        features.Notary,
		"with_clair":         features.Clair,
		"with_chartmuseum":   features.ChartMuseum,
	})
	if err != nil {
		return nil, err
	}

	xsrfKey, err := c.secrets(c.cfg.SecretLength())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to generate xsrf key", err)
	}
	appData := settings.Mapping{
		"uid":      c.cfg.UID(),
		"gid":      c.cfg.GID(),
		"xsrf_key": xsrfKey,
	}

	// Distinct destinations, so the two renders are independent.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		return c.renderer.Render(render.Descriptor{
			Name:        EnvTemplate,
			Destination: c.cfg.CoreEnvPath(),
			Perm:        defaults.FilePerm,
		}, envData)
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		return c.renderer.Render(render.Descriptor{
			Name:        AppConfTemplate,
			Destination: c.cfg.CoreAppConfPath(),
			Perm:        defaults.FilePerm,
		}, appData)
	})
	if err := g.Wait(); err != nil {
		if errors.CodeOf(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, "core preparation cancelled", err)
		}
		return nil, err
	}

	res := result.New(StepName)
	for _, path := range []string{c.cfg.CoreEnvPath(), c.cfg.CoreAppConfPath()} {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeIO,
				fmt.Sprintf("failed to stat %s", path), err,
				map[string]any{"path": path})
		}
		res.AddFile(path, info.Size())
	}
	res.SetMetadata("cache_driver", driver)
	res.Duration = time.Since(start)
	res.MarkSuccess()

	slog.Info("core configuration prepared",
		"cache_driver", driver,
		"notary", features.Notary,
		"clair", features.Clair,
		"chartmuseum", features.ChartMuseum,
		"files", len(res.Files),
	)

	return res, nil
}

// CopyConfig copies a user supplied core configuration file to dst and
// returns the generated path.
func (c *Core) CopyConfig(src, dst string) (string, error) {
	out, err := fsutil.CopyFile(src, dst)
	if err != nil {
		return "", err
	}
	slog.Info("generated configuration file", "path", out)
	return out, nil
}

// validate checks the keys core preparation depends on and returns the
// configured redis host.
func validate(mapping settings.Mapping) (string, error) {
	raw, ok := mapping[redisHostKey]
	if !ok {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("required setting %s is missing", redisHostKey),
			map[string]any{"key": redisHostKey})
	}

	var redisHost string
	switch v := raw.(type) {
	case nil:
	case string:
		redisHost = v
	default:
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("setting %s must be a string, got %T", redisHostKey, raw),
			map[string]any{"key": redisHostKey})
	}

	if host, ok := mapping.String(hostnameKey); ok {
		if err := validateHostname(host); err != nil {
			return "", err
		}
	}

	return redisHost, nil
}

// validateHostname reports whether host can serve as the domain part of an
// image reference. Single-label names other than localhost are rejected since
// clients would resolve them against the default registry.
func validateHostname(host string) error {
	invalid := func(cause error) error {
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid registry hostname %q", host), cause,
			map[string]any{"key": hostnameKey, "hostname": host})
	}

	if host == "" {
		return invalid(fmt.Errorf("hostname is empty"))
	}

	ref, err := reference.ParseNormalizedNamed(host + "/library/image")
	if err != nil {
		return invalid(err)
	}
	if domain := reference.Domain(ref); domain != host {
		return invalid(fmt.Errorf("resolves to registry %s", domain))
	}
	return nil
}
