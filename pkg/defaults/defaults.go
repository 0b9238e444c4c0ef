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

package defaults

import "os"

// Ownership defaults for directories shared with the registry containers.
const (
	// UID is the numeric owner applied to data directories the core service writes to.
	UID = 10000

	// GID is the numeric group applied alongside UID.
	GID = 10000
)

// Directory layout defaults. All generated paths are derived from these roots.
const (
	// ConfigDir is the root under which rendered service configuration is written.
	ConfigDir = "/config"

	// DataDir is the root of persistent registry data.
	DataDir = "/data"
)

// File and directory modes for generated artifacts.
const (
	// DirPerm is the mode for directories created during preparation.
	DirPerm os.FileMode = 0o755

	// FilePerm is the mode for rendered configuration files. They carry
	// passwords and secrets, so only the owner may read them.
	FilePerm os.FileMode = 0o600
)

// Secret generation.
const (
	// SecretLength is the length of generated signing keys such as the XSRF key.
	SecretLength = 40
)

// VersionKey is the settings key holding the schema version of a registry config file.
const VersionKey = "_version"
