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

// Package config provides the explicit layout and ownership settings shared by
// the preparation components.
//
// A Config is built once at startup, either programmatically with NewConfig
// and functional options or from a layout file with Load, and passed to each
// component. Nothing in this module reads process-wide layout globals.
//
// Layout file keys (YAML):
//
//	config_dir: /config
//	data_dir: /data
//	uid: 10000
//	gid: 10000
//	secret_length: 40
//
// Each key can be overridden with a PREPARE_ prefixed environment variable,
// for example PREPARE_DATA_DIR=/srv/harbor.
package config
