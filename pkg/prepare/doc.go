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

// Package prepare generates the on-disk configuration of the registry core
// service.
//
// Core.Prepare creates the core data and certificate directories, derives the
// chart cache driver from redis_host and renders two files from the embedded
// templates:
//
//   - <config>/core/env from the settings mapping, the derived
//     chart_cache_driver and the with_notary, with_clair and with_chartmuseum
//     feature flags
//   - <config>/core/app.conf with the service uid/gid and a fresh 40
//     character XSRF key
//
// The settings mapping must contain redis_host (an empty value selects the
// in-memory cache driver) and every key the env template references:
//
//	public_url, log_level, core_secret, jobservice_secret,
//	harbor_admin_password, harbor_db_host, harbor_db_port,
//	harbor_db_username, harbor_db_password, harbor_db_name,
//	harbor_db_sslmode, storage_provider_name
//
// plus redis_port, redis_password and redis_db_index when redis_host is set,
// and clair_db_* when Clair is enabled. A missing key fails the run with an
// ErrCodeTemplate error before anything is written for that file.
//
// Usage:
//
//	core := prepare.NewCore(cfg)
//	res, err := core.Prepare(ctx, mapping, prepare.Features{Notary: true})
package prepare
