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
	"io"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/harbor-prepare/pkg/migrate"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "migrate",
		EnableShellCompletion: true,
		Usage:                 "Migrate a harbor.yml file to the next schema version",
		Description: `Reads a harbor.yml file, checks the version declared under _version and
writes the file in the schema of the next version. Only one step is performed
per run; use "versions" to list the supported input versions.

The output is written only when migration succeeds. An unsupported input
version fails with a message listing the acceptable versions.

# Examples

Migrate a 1.8.0 configuration:
  harbor-prepare migrate --input harbor.yml --output harbor.yml.new

Print the migrated configuration without writing it:
  harbor-prepare migrate --input harbor.yml --dry-run`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "Path to the configuration file to migrate",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to write the migrated configuration (required unless --dry-run)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the migrated configuration to stdout instead of writing it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runMigrate(ctx, cmd, migrate.DefaultRegistry())
		},
	}
}

func runMigrate(ctx context.Context, cmd *cli.Command, reg *migrate.Registry) error {
	in := cmd.String("input")
	out := cmd.String("output")
	dryRun := cmd.Bool("dry-run")

	if out == "" && !dryRun {
		return fmt.Errorf("--output is required unless --dry-run is set")
	}

	m, err := reg.Detect(in)
	if err != nil {
		return err
	}

	if dryRun {
		content, err := m.Render(ctx, in)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout(cmd), content)
		return err
	}

	return m.Migrate(ctx, in, out)
}
