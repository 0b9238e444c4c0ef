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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/harbor-prepare/pkg/checksum"
	"github.com/NVIDIA/harbor-prepare/pkg/header"
	"github.com/NVIDIA/harbor-prepare/pkg/prepare"
	"github.com/NVIDIA/harbor-prepare/pkg/result"
	"github.com/NVIDIA/harbor-prepare/pkg/serializer"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
)

// PrepareReport is the document printed by the prepare command.
type PrepareReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Features prepare.Features `json:"features" yaml:"features"`
	Result   *result.Result   `json:"result" yaml:"result"`
}

// TableHeader implements serializer.Table.
func (r *PrepareReport) TableHeader() []string {
	return []string{"FIELD", "VALUE"}
}

// TableRows implements serializer.Table.
func (r *PrepareReport) TableRows() [][]string {
	rows := [][]string{
		{"notary", strconv.FormatBool(r.Features.Notary)},
		{"clair", strconv.FormatBool(r.Features.Clair)},
		{"chartmuseum", strconv.FormatBool(r.Features.ChartMuseum)},
	}
	if r.Result == nil {
		return rows
	}
	rows = append(rows,
		[]string{"success", strconv.FormatBool(r.Result.Success)},
		[]string{"cache_driver", r.Result.Metadata["cache_driver"]},
	)
	for _, f := range r.Result.Files {
		rows = append(rows, []string{"file", f})
	}
	rows = append(rows, []string{"size_bytes", strconv.FormatInt(r.Result.Size, 10)})
	if r.Result.Checksum != "" {
		rows = append(rows, []string{"checksum", r.Result.Checksum})
	}
	return rows
}

// prepareCmdOptions holds parsed options for the prepare command.
type prepareCmdOptions struct {
	settingsPath string
	overrides    settings.Mapping
	features     prepare.Features
	coreConfig   string
	checksums    bool
	format       serializer.Format
}

// parsePrepareCmdOptions parses and validates command options.
func parsePrepareCmdOptions(cmd *cli.Command) (*prepareCmdOptions, error) {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	overrides, err := settings.ParseOverrides(cmd.StringSlice("set"))
	if err != nil {
		return nil, fmt.Errorf("invalid --set flag: %w", err)
	}

	return &prepareCmdOptions{
		settingsPath: cmd.String("settings"),
		overrides:    overrides,
		features: prepare.Features{
			Notary:      cmd.Bool("with-notary"),
			Clair:       cmd.Bool("with-clair"),
			ChartMuseum: cmd.Bool("with-chartmuseum"),
		},
		coreConfig: cmd.String("core-config"),
		checksums:  cmd.Bool("checksums"),
		format:     format,
	}, nil
}

func prepareCmd() *cli.Command {
	return &cli.Command{
		Name:                  "prepare",
		EnableShellCompletion: true,
		Usage:                 "Generate core service directories and configuration",
		Description: `Creates the core data and certificate directories and renders the core
configuration from a settings file:

  - <config_dir>/core/env: environment of the core service
  - <config_dir>/core/app.conf: application config with a fresh XSRF key
  - <data_dir>/psc and <data_dir>/ca_download, owned by uid/gid

The chart cache driver is "redis" when redis_host is set and "memory" when it
is empty. Every placeholder in the templates must be present in the settings;
a missing key fails the command before the affected file is written.

# Examples

Prepare with the default layout (/config, /data, 10000:10000):
  harbor-prepare prepare --settings settings.yaml

Use a custom layout and enable notary:
  harbor-prepare --layout layout.yaml prepare --settings settings.yaml --with-notary

Override individual settings:
  harbor-prepare prepare --settings settings.yaml --set redis_host= --set log_level=debug

Write checksums for the generated files:
  harbor-prepare prepare --settings settings.yaml --checksums`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "settings",
				Aliases:  []string{"s"},
				Required: true,
				Usage:    "Path to the YAML or JSON settings file",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Override a setting (format: key=value, can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "with-notary",
				Usage: "Render notary settings into the core environment",
			},
			&cli.BoolFlag{
				Name:  "with-clair",
				Usage: "Render clair settings into the core environment",
			},
			&cli.BoolFlag{
				Name:  "with-chartmuseum",
				Usage: "Render chartmuseum settings into the core environment",
			},
			&cli.StringFlag{
				Name:  "core-config",
				Usage: "Copy this file over the generated app.conf",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt for the generated files into the config directory",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts, err := parsePrepareCmdOptions(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			mapping, err := settings.FromFile(opts.settingsPath)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			if mapping, err = mapping.Merge(opts.overrides); err != nil {
				return fmt.Errorf("failed to apply --set overrides: %w", err)
			}

			core := prepare.NewCore(cfg)
			res, err := core.Prepare(ctx, mapping, opts.features)
			if err != nil {
				return err
			}

			if opts.coreConfig != "" {
				path, err := core.CopyConfig(opts.coreConfig, cfg.CoreAppConfPath())
				if err != nil {
					return err
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", path, err)
				}
				res.UpdateFile(path, info.Size())
			}

			if opts.checksums {
				path, err := checksum.GenerateChecksums(ctx, cfg.ConfigDir(), res.Files)
				if err != nil {
					return err
				}
				res.Checksum = path
			}

			slog.Info(res.Summary())

			w, err := newOutputWriter(cmd, opts.format)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := w.Close(); closeErr != nil {
					slog.Warn("failed to close output", "error", closeErr)
				}
			}()
			report := &PrepareReport{
				Features: opts.features,
				Result:   res,
			}
			report.Init(header.KindPrepareResult, version)
			return w.Serialize(ctx, report)
		},
	}
}
