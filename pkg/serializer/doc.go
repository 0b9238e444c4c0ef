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

// Package serializer reads structured configuration files and writes command
// output in JSON, YAML or table form.
//
// # Reading
//
// FromFile loads a local JSON or YAML file into any type, picking the format
// from the extension (YAML when unknown):
//
//	m, err := serializer.FromFile[map[string]any]("harbor.yml")
//
// Open failures carry errors.ErrCodeIO and malformed content carries
// errors.ErrCodeParse.
//
// # Writing
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "report.yaml")
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	err = w.Serialize(ctx, report)
//
// Table output is only available for values implementing Table.
package serializer
