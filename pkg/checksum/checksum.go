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

package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/fsutil"
)

// ChecksumFileName is the standard name for checksum files.
const ChecksumFileName = "checksums.txt"

// GenerateChecksums writes a checksums.txt file into dir containing the
// SHA256 checksum of every provided file, in sha256sum format. Paths are
// written relative to dir where possible. It returns the checksums file path.
func GenerateChecksums(ctx context.Context, dir string, files []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "context cancelled", err)
	}

	checksums := make([]string, 0, len(files))

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.WrapWithContext(errors.ErrCodeIO,
				fmt.Sprintf("failed to read %s for checksum", file), err,
				map[string]any{"path": file})
		}

		hash := sha256.Sum256(data)
		relPath, err := filepath.Rel(dir, file)
		if err != nil {
			// If relative path fails, use absolute path
			relPath = file
		}

		checksums = append(checksums, fmt.Sprintf("%s  %s", hex.EncodeToString(hash[:]), relPath))
	}

	checksumPath := GetChecksumFilePath(dir)
	content := strings.Join(checksums, "\n") + "\n"

	if err := fsutil.WriteFileAtomic(checksumPath, []byte(content), 0o600); err != nil {
		return "", err
	}

	slog.Debug("checksums generated",
		"file_count", len(checksums),
		"path", checksumPath,
	)

	return checksumPath, nil
}

// GetChecksumFilePath returns the full path to the checksums.txt file
// in the given directory.
func GetChecksumFilePath(dir string) string {
	return filepath.Join(dir, ChecksumFileName)
}
