package prepare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/harbor-prepare/pkg/config"
	perrors "github.com/NVIDIA/harbor-prepare/pkg/errors"
	"github.com/NVIDIA/harbor-prepare/pkg/render"
	"github.com/NVIDIA/harbor-prepare/pkg/settings"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return config.NewConfig(
		config.WithConfigDir(filepath.Join(root, "config")),
		config.WithDataDir(filepath.Join(root, "data")),
		config.WithOwner(os.Getuid(), os.Getgid()),
	)
}

func testSettings(t *testing.T) settings.Mapping {
	t.Helper()
	m, err := settings.FromFile("testdata/settings.yaml")
	require.NoError(t, err)
	return m
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCacheDriver(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", CacheDriverMemory},
		{"redis-host-1", CacheDriverRedis},
		{"redis", CacheDriverRedis},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheDriver(tt.host))
		})
	}
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t)
	core := NewCore(cfg)
	mapping := testSettings(t)

	res, err := core.Prepare(context.Background(), mapping, Features{Notary: true})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Success)
	assert.Equal(t, []string{cfg.CoreEnvPath(), cfg.CoreAppConfPath()}, res.Files)
	assert.Equal(t, CacheDriverRedis, res.Metadata["cache_driver"])
	assert.Positive(t, res.Size)

	for _, dir := range []string{cfg.PSCDir(), cfg.CADownloadDir(), cfg.CoreConfigDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	for _, path := range res.Files {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), path)
	}

	env := readFile(t, cfg.CoreEnvPath())
	assert.Contains(t, env, "CHART_CACHE_DRIVER=redis\n")
	assert.Contains(t, env, "_REDIS_URL=redis:6379,100,,1\n")
	assert.Contains(t, env, "EXT_ENDPOINT=https://reg.example.com\n")
	assert.Contains(t, env, "WITH_NOTARY=true\n")
	assert.Contains(t, env, "WITH_CLAIR=false\n")
	assert.Contains(t, env, "WITH_CHARTMUSEUM=false")
	assert.Contains(t, env, "NOTARY_URL=http://notary-server:4443")
	assert.NotContains(t, env, "CLAIR_URL")
	assert.NotContains(t, env, "CHART_REPOSITORY_URL")

	appConf := readFile(t, cfg.CoreAppConfPath())
	assert.Contains(t, appConf, "appname = Harbor\n")
	assert.Regexp(t, `XSRFKey = [A-Za-z0-9]{40}\n`, appConf)

	// The caller's mapping is left as it was.
	assert.False(t, mapping.Has("chart_cache_driver"))
	assert.False(t, mapping.Has("with_notary"))
}

func TestPrepareMemoryDriver(t *testing.T) {
	cfg := testConfig(t)
	mapping := testSettings(t)
	mapping["redis_host"] = ""

	res, err := NewCore(cfg).Prepare(context.Background(), mapping, Features{})
	require.NoError(t, err)
	assert.Equal(t, CacheDriverMemory, res.Metadata["cache_driver"])

	env := readFile(t, cfg.CoreEnvPath())
	assert.Contains(t, env, "CHART_CACHE_DRIVER=memory\n")
	assert.NotContains(t, env, "_REDIS_URL=")
}

func TestPrepareNilRedisHost(t *testing.T) {
	cfg := testConfig(t)
	mapping := testSettings(t)
	mapping["redis_host"] = nil

	res, err := NewCore(cfg).Prepare(context.Background(), mapping, Features{})
	require.NoError(t, err)
	assert.Equal(t, CacheDriverMemory, res.Metadata["cache_driver"])
}

func TestPrepareFixedSecret(t *testing.T) {
	cfg := testConfig(t)
	var requested int
	core := NewCore(cfg, WithSecretFunc(func(n int) (string, error) {
		requested = n
		return strings.Repeat("k", n), nil
	}))

	_, err := core.Prepare(context.Background(), testSettings(t), Features{})
	require.NoError(t, err)

	assert.Equal(t, 40, requested)
	assert.Contains(t, readFile(t, cfg.CoreAppConfPath()), "XSRFKey = "+strings.Repeat("k", 40)+"\n")
}

func TestPrepareSecretsDiffer(t *testing.T) {
	cfg := testConfig(t)
	core := NewCore(cfg)

	_, err := core.Prepare(context.Background(), testSettings(t), Features{})
	require.NoError(t, err)
	first := readFile(t, cfg.CoreAppConfPath())

	_, err = core.Prepare(context.Background(), testSettings(t), Features{})
	require.NoError(t, err)
	second := readFile(t, cfg.CoreAppConfPath())

	assert.NotEqual(t, first, second)
}

func TestPrepareErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(settings.Mapping)
		features Features
		code     perrors.ErrorCode
	}{
		{
			name:   "missing redis_host",
			mutate: func(m settings.Mapping) { delete(m, "redis_host") },
			code:   perrors.ErrCodeInvalidRequest,
		},
		{
			name:   "non-string redis_host",
			mutate: func(m settings.Mapping) { m["redis_host"] = 6379 },
			code:   perrors.ErrCodeInvalidRequest,
		},
		{
			name:   "invalid hostname",
			mutate: func(m settings.Mapping) { m["hostname"] = "https://reg.example.com" },
			code:   perrors.ErrCodeInvalidRequest,
		},
		{
			name:   "single label hostname",
			mutate: func(m settings.Mapping) { m["hostname"] = "harbor" },
			code:   perrors.ErrCodeInvalidRequest,
		},
		{
			name:   "missing template key",
			mutate: func(m settings.Mapping) { delete(m, "core_secret") },
			code:   perrors.ErrCodeTemplate,
		},
		{
			name:     "clair enabled without clair settings",
			mutate:   func(settings.Mapping) {},
			features: Features{Clair: true},
			code:     perrors.ErrCodeTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			mapping := testSettings(t)
			tt.mutate(mapping)

			_, err := NewCore(cfg).Prepare(context.Background(), mapping, tt.features)
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.CodeOf(err))
		})
	}
}

func TestPrepareTemplateErrorLeavesNoEnv(t *testing.T) {
	cfg := testConfig(t)
	mapping := testSettings(t)
	delete(mapping, "harbor_db_password")

	_, err := NewCore(cfg).Prepare(context.Background(), mapping, Features{})
	require.Error(t, err)

	_, statErr := os.Stat(cfg.CoreEnvPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestPrepareSecretFailure(t *testing.T) {
	core := NewCore(testConfig(t), WithSecretFunc(func(int) (string, error) {
		return "", errors.New("entropy unavailable")
	}))

	_, err := core.Prepare(context.Background(), testSettings(t), Features{})
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeInternal, perrors.CodeOf(err))
}

func TestPrepareCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCore(testConfig(t)).Prepare(ctx, testSettings(t), Features{})
	require.Error(t, err)
}

func TestPrepareCustomRenderer(t *testing.T) {
	cfg := testConfig(t)
	r := render.NewRenderer(render.NewTemplateGetter(map[string]string{
		EnvTemplate:     "driver={{ .chart_cache_driver }}",
		AppConfTemplate: "owner={{ .uid }}:{{ .gid }}",
	}))

	_, err := NewCore(cfg, WithRenderer(r)).Prepare(context.Background(),
		settings.Mapping{"redis_host": ""}, Features{})
	require.NoError(t, err)

	assert.Equal(t, "driver=memory", readFile(t, cfg.CoreEnvPath()))
	assert.Equal(t, fmt.Sprintf("owner=%d:%d", os.Getuid(), os.Getgid()), readFile(t, cfg.CoreAppConfPath()))
}

func TestValidateHostname(t *testing.T) {
	valid := []string{"reg.example.com", "reg.example.com:8443", "localhost", "localhost:5000", "10.0.0.1"}
	for _, h := range valid {
		assert.NoError(t, validateHostname(h), h)
	}

	invalid := []string{"", "harbor", "https://reg.example.com", "reg example.com", "reg.example.com/path"}
	for _, h := range invalid {
		assert.Error(t, validateHostname(h), h)
	}
}

func TestCopyConfig(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.conf.custom")
	dst := filepath.Join(dir, "app.conf")
	require.NoError(t, os.WriteFile(src, []byte("custom"), 0o644))

	out, err := NewCore(testConfig(t)).CopyConfig(src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, out)
	assert.Equal(t, "custom", readFile(t, dst))

	_, err = NewCore(testConfig(t)).CopyConfig(filepath.Join(dir, "missing"), dst)
	assert.True(t, perrors.IsCode(err, perrors.ErrCodeIO))
}
