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

// Package render turns templates and a settings mapping into configuration
// files on disk.
//
// # Templates
//
// Templates are Go text/template documents with the sprig function library:
//
//	_version: 1.9.0
//	hostname: {{ .hostname }}
//	{{- if hasKey . "https" }}
//	https:
//	  port: {{ .https.port }}
//	{{- end }}
//
// Placeholders must name keys present in the mapping; execution stops with
// an ErrCodeTemplate error otherwise. Use hasKey or sprig's default to make a
// key optional.
//
// # Writing
//
// Render produces the full output in memory and then writes it with
// fsutil.WriteFileAtomic, so the destination is either replaced completely or
// left as it was.
package render
