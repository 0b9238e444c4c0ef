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

// Package result provides types for reporting what a preparation run produced.
//
// A Result is created per step, filled in while files are written and
// printed by the CLI in yaml, json or table form:
//
//	res := result.New("core")
//	res.AddFile("/config/core/env", 512)
//	res.SetMetadata("cache_driver", "redis")
//	res.MarkSuccess()
//	fmt.Println(res.Summary())
//	// core succeeded: 1 files (512 B) in 3ms
package result
