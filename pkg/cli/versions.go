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
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/harbor-prepare/pkg/header"
	"github.com/NVIDIA/harbor-prepare/pkg/migrate"
)

// MigrationList is the document printed by the versions command.
type MigrationList struct {
	header.Header `json:",inline" yaml:",inline"`

	Migrations []MigrationInfo `json:"migrations" yaml:"migrations"`
}

// TableHeader implements serializer.Table.
func (l *MigrationList) TableHeader() []string {
	return []string{"FROM", "TO"}
}

// TableRows implements serializer.Table.
func (l *MigrationList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Migrations))
	for _, m := range l.Migrations {
		rows = append(rows, []string{strings.Join(m.From, ","), m.To})
	}
	return rows
}

// MigrationInfo describes one registered migration.
type MigrationInfo struct {
	From []string `json:"from" yaml:"from"`
	To   string   `json:"to" yaml:"to"`
}

func versionsCmd() *cli.Command {
	return &cli.Command{
		Name:  "versions",
		Usage: "List the configuration versions that can be migrated",
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			w, err := newOutputWriter(cmd, format)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := w.Close(); closeErr != nil {
					slog.Warn("failed to close output", "error", closeErr)
				}
			}()

			list := &MigrationList{Migrations: listMigrations(migrate.DefaultRegistry())}
			list.Init(header.KindMigrationList, version)
			return w.Serialize(ctx, list)
		},
	}
}

func listMigrations(reg *migrate.Registry) []MigrationInfo {
	migrators := reg.List()
	infos := make([]MigrationInfo, 0, len(migrators))
	for _, m := range migrators {
		infos = append(infos, MigrationInfo{
			From: m.Accepts.Strings(),
			To:   m.Target.String(),
		})
	}
	return infos
}
