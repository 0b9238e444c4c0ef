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

// Package version models the schema version declared by a registry
// configuration file and the acceptable-version sets migrators check it against.
//
// Tags are compared exactly as written; semantic versions are only used to
// order them:
//
//	version.Tag("v1.8.0").Equal("1.8.0")       // false
//	version.NewSet("1.8.0").Contains("1.8.0") // true
package version
