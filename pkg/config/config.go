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

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
)

// EnvPrefix is the prefix for environment variables overriding the layout.
const EnvPrefix = "PREPARE"

// Config provides immutable layout and ownership settings for preparation.
// All fields are read-only after creation; use the With* options when building one.
type Config struct {
	// configDir is the root of rendered service configuration.
	configDir string

	// dataDir is the root of persistent registry data.
	dataDir string

	// uid and gid are applied to data directories the core service writes to.
	uid int
	gid int

	// secretLength is the length of generated signing keys.
	secretLength int

	// version is the tool version recorded in logs and outputs.
	version string
}

// ConfigDir returns the configuration root.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// DataDir returns the data root.
func (c *Config) DataDir() string {
	return c.dataDir
}

// UID returns the numeric owner for data directories.
func (c *Config) UID() int {
	return c.uid
}

// GID returns the numeric group for data directories.
func (c *Config) GID() int {
	return c.gid
}

// SecretLength returns the length of generated secrets.
func (c *Config) SecretLength() int {
	return c.secretLength
}

// Version returns the tool version.
func (c *Config) Version() string {
	return c.version
}

// CoreConfigDir is where the core service reads its certificates from.
func (c *Config) CoreConfigDir() string {
	return filepath.Join(c.configDir, "core", "certificates")
}

// CoreEnvPath is the rendered core environment file.
func (c *Config) CoreEnvPath() string {
	return filepath.Join(c.configDir, "core", "env")
}

// CoreAppConfPath is the rendered core app.conf file.
func (c *Config) CoreAppConfPath() string {
	return filepath.Join(c.configDir, "core", "app.conf")
}

// CADownloadDir holds the CA certificate offered for download.
func (c *Config) CADownloadDir() string {
	return filepath.Join(c.dataDir, "ca_download")
}

// PSCDir holds the core service's persistent session state.
func (c *Config) PSCDir() string {
	return filepath.Join(c.dataDir, "psc")
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.configDir == "" {
		return fmt.Errorf("config dir cannot be empty")
	}
	if c.dataDir == "" {
		return fmt.Errorf("data dir cannot be empty")
	}
	if c.uid < 0 || c.gid < 0 {
		return fmt.Errorf("invalid owner %d:%d (must be non-negative)", c.uid, c.gid)
	}
	if c.secretLength <= 0 {
		return fmt.Errorf("secret length must be positive, got %d", c.secretLength)
	}
	return nil
}

type Option func(*Config)

// WithConfigDir sets the configuration root.
func WithConfigDir(dir string) Option {
	return func(c *Config) {
		c.configDir = dir
	}
}

// WithDataDir sets the data root.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.dataDir = dir
	}
}

// WithOwner sets the numeric owner and group for data directories.
func WithOwner(uid, gid int) Option {
	return func(c *Config) {
		c.uid = uid
		c.gid = gid
	}
}

// WithSecretLength sets the generated secret length.
func WithSecretLength(n int) Option {
	return func(c *Config) {
		c.secretLength = n
	}
}

// WithVersion sets the tool version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// NewConfig returns a Config with default values.
func NewConfig(options ...Option) *Config {
	c := &Config{
		configDir:    defaults.ConfigDir,
		dataDir:      defaults.DataDir,
		uid:          defaults.UID,
		gid:          defaults.GID,
		secretLength: defaults.SecretLength,
		version:      "dev",
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// layoutFile mirrors the keys accepted in a layout file.
type layoutFile struct {
	ConfigDir    string `mapstructure:"config_dir"`
	DataDir      string `mapstructure:"data_dir"`
	UID          int    `mapstructure:"uid"`
	GID          int    `mapstructure:"gid"`
	SecretLength int    `mapstructure:"secret_length"`
}

// Load builds a Config from an optional layout file and PREPARE_* environment
// variables. Values not set in either place keep their defaults. Options are
// applied last and win over both.
func Load(path string, options ...Option) (*Config, error) {
	v := viper.New()
	v.SetDefault("config_dir", defaults.ConfigDir)
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("uid", defaults.UID)
	v.SetDefault("gid", defaults.GID)
	v.SetDefault("secret_length", defaults.SecretLength)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
		}
	}

	var lf layoutFile
	if err := v.Unmarshal(&lf); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}

	opts := append([]Option{
		WithConfigDir(lf.ConfigDir),
		WithDataDir(lf.DataDir),
		WithOwner(lf.UID, lf.GID),
		WithSecretLength(lf.SecretLength),
	}, options...)

	cfg := NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return cfg, nil
}
