package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/header"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.Writer = &out
	root.ErrWriter = &out
	err := root.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

// writeLayout writes a layout file rooted in a temp dir owned by the
// current user and returns its path and the root.
func writeLayout(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	layout := filepath.Join(root, "layout.yaml")
	content := fmt.Sprintf("config_dir: %s\ndata_dir: %s\nuid: %d\ngid: %d\n",
		filepath.Join(root, "config"), filepath.Join(root, "data"), os.Getuid(), os.Getgid())
	require.NoError(t, os.WriteFile(layout, []byte(content), 0o644))
	return layout, root
}

func TestPrepareCommand(t *testing.T) {
	layout, root := writeLayout(t)

	out, err := run(t, "--layout", layout, "prepare",
		"--settings", "testdata/settings.yaml",
		"--set", "redis_host=",
		"--with-chartmuseum",
		"--checksums",
		"--format", "json")
	require.NoError(t, err)

	var report PrepareReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, header.KindPrepareResult, report.Kind)
	assert.True(t, report.Features.ChartMuseum)

	res := report.Result
	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Equal(t, "memory", res.Metadata["cache_driver"])
	assert.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(root, "config", "checksums.txt"), res.Checksum)

	env, err := os.ReadFile(filepath.Join(root, "config", "core", "env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "CHART_CACHE_DRIVER=memory\n")
	assert.Contains(t, string(env), "CHART_REPOSITORY_URL=http://chartmuseum:9999")

	for _, dir := range []string{"psc", "ca_download"} {
		info, err := os.Stat(filepath.Join(root, "data", dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	sums, err := os.ReadFile(res.Checksum)
	require.NoError(t, err)
	assert.Contains(t, string(sums), filepath.Join("core", "app.conf"))
}

func TestPrepareCommandCoreConfig(t *testing.T) {
	layout, root := writeLayout(t)
	custom := filepath.Join(root, "app.conf.custom")
	require.NoError(t, os.WriteFile(custom, []byte("appname = Custom\n"), 0o644))

	out, err := run(t, "--layout", layout, "prepare",
		"--settings", "testdata/settings.yaml",
		"--core-config", custom,
		"--format", "json")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "config", "core", "app.conf"))
	require.NoError(t, err)
	assert.Equal(t, "appname = Custom\n", string(got))

	var report PrepareReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Result)

	var want int64
	for _, path := range report.Result.Files {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		want += info.Size()
	}
	assert.Equal(t, want, report.Result.Size)
	assert.Len(t, report.Result.Files, 2)
}

func TestPrepareCommandErrors(t *testing.T) {
	layout, _ := writeLayout(t)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"missing settings file", []string{"prepare", "--settings", "testdata/nope.yaml"}, errors.ErrCodeIO},
		{"missing redis_host", []string{"prepare", "--settings", "testdata/harbor.v2.0.0.yml"}, errors.ErrCodeInvalidRequest},
		{"invalid override", []string{"prepare", "--settings", "testdata/settings.yaml", "--set", "novalue"}, errors.ErrCodeInvalidRequest},
		{"invalid format", []string{"prepare", "--settings", "testdata/settings.yaml", "--format", "xml"}, ""},
		{"settings flag required", []string{"prepare"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--layout", layout}, tt.args...)...)
			require.Error(t, err)
			if tt.code != "" {
				assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
			}
		})
	}
}

func TestMigrateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "harbor.yml")

	_, err := run(t, "migrate", "--input", "testdata/harbor.v1.8.0.yml", "--output", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "_version: 1.9.0\n")
}

func TestMigrateCommandDryRun(t *testing.T) {
	printed, err := run(t, "migrate", "--input", "testdata/harbor.v1.8.0.yml", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, printed, "_version: 1.9.0\n")
	assert.Contains(t, printed, "proxy:\n")
}

func TestMigrateCommandErrors(t *testing.T) {
	_, err := run(t, "migrate", "--input", "testdata/harbor.v1.8.0.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")

	_, err = run(t, "migrate", "--input", "testdata/harbor.v2.0.0.yml", "--output", filepath.Join(t.TempDir(), "x.yml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeVersion, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "1.8.0")
}

func TestVersionsCommand(t *testing.T) {
	printed, err := run(t, "versions", "--format", "json")
	require.NoError(t, err)

	var list MigrationList
	require.NoError(t, json.Unmarshal([]byte(printed), &list))
	assert.Equal(t, header.KindMigrationList, list.Kind)
	assert.Equal(t, header.APIVersion, list.APIVersion)
	assert.Equal(t, []MigrationInfo{{From: []string{"1.8.0"}, To: "1.9.0"}}, list.Migrations)
}

func TestVersionsCommandTable(t *testing.T) {
	printed, err := run(t, "versions", "--format", "table")
	require.NoError(t, err)
	assert.Equal(t, "FROM   TO\n1.8.0  1.9.0\n", printed)
}

func TestPrepareCommandTable(t *testing.T) {
	layout, root := writeLayout(t)

	printed, err := run(t, "--layout", layout, "prepare",
		"--settings", "testdata/settings.yaml",
		"--format", "table")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(printed, "FIELD"))
	assert.Contains(t, printed, filepath.Join(root, "config", "core", "env"))
	assert.Regexp(t, `cache_driver\s+redis\n`, printed)
}

func TestOutputFileNotCreatable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "versions.yaml")
	_, err := run(t, "versions", "--output", out)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIO, errors.CodeOf(err))
}

func TestMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepare.prom")

	_, err := run(t, "--metrics-file", path, "versions")
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(got), "harbor_prepare_migrate_duration_seconds"))
}
