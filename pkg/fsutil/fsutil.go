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

package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/NVIDIA/harbor-prepare/pkg/defaults"
	"github.com/NVIDIA/harbor-prepare/pkg/errors"
)

// Owner is a numeric owner and group applied to a prepared directory.
type Owner struct {
	UID int
	GID int
}

// OwnedBy returns an Owner for use with PrepareDir.
func OwnedBy(uid, gid int) *Owner {
	return &Owner{UID: uid, GID: gid}
}

// PrepareDir creates path and its parents if absent. When owner is non-nil the
// directory is chowned to it, unless it already has that owner and group.
// Calling it on an already-correct directory does nothing.
func PrepareDir(path string, owner *Owner) error {
	if err := os.MkdirAll(path, defaults.DirPerm); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to create directory %s", path), err,
			map[string]any{"path": path})
	}

	if owner == nil {
		slog.Debug("directory prepared", "path", path)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, fmt.Sprintf("failed to stat directory %s", path), err)
	}
	if !info.IsDir() {
		return errors.NewWithContext(errors.ErrCodeIO,
			fmt.Sprintf("%s exists and is not a directory", path),
			map[string]any{"path": path})
	}

	if uid, gid, ok := ownerOf(info); ok && uid == owner.UID && gid == owner.GID {
		slog.Debug("directory already owned", "path", path, "uid", uid, "gid", gid)
		return nil
	}

	if err := os.Chown(path, owner.UID, owner.GID); err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to chown %s", path), err,
			map[string]any{"path": path, "uid": owner.UID, "gid": owner.GID})
	}

	slog.Debug("directory prepared",
		"path", path,
		"uid", owner.UID,
		"gid", owner.GID,
	)
	return nil
}

// WriteFileAtomic writes data to a sibling temporary file and renames it over
// path, so readers see either the previous content or the complete new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return writeAtomic(path, bytes.NewReader(data), perm)
}

// CopyFile copies src to dst byte for byte, overwriting dst.
// It returns dst on success.
func CopyFile(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to open %s", src), err,
			map[string]any{"source": src})
	}
	defer in.Close()

	if err := writeAtomic(dst, in, defaults.FilePerm); err != nil {
		return "", err
	}

	slog.Debug("file copied", "source", src, "destination", dst)
	return dst, nil
}

func writeAtomic(path string, r io.Reader, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to create temporary file for %s", path), err,
			map[string]any{"destination": path})
	}

	cleanup := func(cause error, msg string) error {
		_ = f.Close()
		if rmErr := os.Remove(tmp); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return errors.WrapWithContext(errors.ErrCodeIO, msg, cause,
			map[string]any{"destination": path})
	}

	n, err := io.Copy(f, r)
	if err != nil {
		return cleanup(err, fmt.Sprintf("failed to write %s", path))
	}
	if err := f.Sync(); err != nil {
		return cleanup(err, fmt.Sprintf("failed to sync %s", path))
	}
	// The create mode is subject to umask; apply perm explicitly.
	if err := f.Chmod(perm); err != nil {
		return cleanup(err, fmt.Sprintf("failed to set mode on %s", path))
	}
	if err := f.Close(); err != nil {
		return cleanup(err, fmt.Sprintf("failed to close %s", path))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapWithContext(errors.ErrCodeIO,
			fmt.Sprintf("failed to move %s into place", path), err,
			map[string]any{"destination": path})
	}

	slog.Debug("file written",
		"path", path,
		"size_bytes", n,
		"permissions", perm,
	)
	return nil
}
