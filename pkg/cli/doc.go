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

// Package cli implements the harbor-prepare command-line interface.
//
// # Commands
//
// prepare - Generate core service configuration:
//
//	harbor-prepare prepare --settings settings.yaml [--with-notary] [--with-clair] [--with-chartmuseum]
//
// Creates the core data and certificate directories and renders the core env
// and app.conf files. Settings can be overridden with --set key=value. The
// command prints a summary of the generated files in the selected format and
// optionally writes checksums.txt next to them.
//
// migrate - Convert a configuration file to the next schema version:
//
//	harbor-prepare migrate --input harbor.yml --output harbor.yml.new [--dry-run]
//
// versions - List the versions accepted by migrate:
//
//	harbor-prepare versions --format table
//
// # Global Flags
//
//	--log-level     Log level: debug, info, warn, error (default: info)
//	--layout        Layout file defining config_dir, data_dir, uid, gid, secret_length
//	--metrics-file  Write Prometheus metrics to this file on exit
//	--help, -h      Show command help
//	--version, -v   Show version information
//
// # Environment Variables
//
//	LOG_LEVEL           Set logging verbosity (debug, info, warn, error)
//	PREPARE_CONFIG_DIR  Override the configuration root (default: /config)
//	PREPARE_DATA_DIR    Override the data root (default: /data)
//	PREPARE_UID         Override the owner of the data directories (default: 10000)
//	PREPARE_GID         Override the group of the data directories (default: 10000)
//
// # Exit Codes
//
//	0  Success
//	1  Any error (invalid arguments, unsupported version, template or I/O failure)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/harbor-prepare/pkg/cli.version=1.0.0'"
package cli
