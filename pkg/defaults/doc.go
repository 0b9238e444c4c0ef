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

// Package defaults provides centralized configuration constants for harbor-prepare.
//
// These values are only defaults: components never read them directly at
// run time but receive them through config.Config, so tests and callers can
// inject alternate paths and ownership.
//
// # Usage
//
//	cfg := config.NewConfig(
//	    config.WithConfigDir(defaults.ConfigDir),
//	    config.WithOwner(defaults.UID, defaults.GID),
//	)
package defaults
