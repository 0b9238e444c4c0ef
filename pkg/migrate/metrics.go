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

package migrate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	migrateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harbor_prepare_migrate_total",
			Help: "Total number of configuration migrations",
		},
		[]string{"target", "status"}, // status: success or error
	)

	migrateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "harbor_prepare_migrate_duration_seconds",
			Help:    "Time taken to migrate one configuration file",
			Buckets: prometheus.DefBuckets,
		},
	)
)
