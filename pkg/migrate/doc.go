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

// Package migrate converts registry configuration files between schema
// versions.
//
// Each Migrator performs one step: it accepts a fixed set of input versions
// and writes its Target version. The input declares its version under the
// _version key; an input with any other version fails with ErrCodeVersion and
// the error lists the acceptable versions.
//
// The output is rendered from the migrator's own template with the parsed
// input as data. Keys referenced by the template must exist in the input;
// optional sections are guarded with hasKey and copied with toYaml.
//
// # Registry
//
// A Registry maps input versions to migrators and dispatches on the version
// found in the input:
//
//	reg := migrate.DefaultRegistry()
//	if err := reg.Migrate(ctx, "harbor.yml", "harbor.yml.new"); err != nil {
//	    return err
//	}
//
// DefaultRegistry contains the 1.8.0 -> 1.9.0 migrator, which moves the
// proxy settings out of the clair section, nests the log rotation settings
// under log.local and adds the database connection pool and webhook retry
// settings.
package migrate
