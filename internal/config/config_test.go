package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"w8/internal/domain"
)

func TestLoadFileMissingKeepsDefaults(t *testing.T) {
	cfg, err := LoadFile(DefaultConfig(), filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileMergesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".w8.yml")
	content := "out_dir: reports\nformat: yaml\nhistory: false\nsort_mode: bogus\nartifact:\n  bucket: team\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(DefaultConfig(), path)
	require.NoError(t, err)
	require.Equal(t, "reports", cfg.OutDir)
	require.Equal(t, "yaml", cfg.Format)
	require.False(t, cfg.History)
	require.Equal(t, domain.SortByScore, cfg.SortMode)
	require.Equal(t, "team", cfg.Artifact.Bucket)
	require.Equal(t, "us-east-1", cfg.Artifact.Region)
	require.Equal(t, "dark", cfg.Theme)
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".w8.yml")
	require.NoError(t, os.WriteFile(path, []byte("out_dir: [unterminated\n"), 0o644))
	_, err := LoadFile(DefaultConfig(), path)
	require.Error(t, err)
}

func TestApplyEnvOverridesFile(t *testing.T) {
	env := map[string]string{
		"W8_OUT_DIR":             "/tmp/w8",
		"W8_FORMAT":              "yaml",
		"W8_ARTIFACT_ENDPOINT":   "minio:9000",
		"W8_ARTIFACT_ACCESS_KEY": "key",
		"W8_ARTIFACT_USE_SSL":    "false",
	}
	cfg := applyEnv(DefaultConfig(), func(key string) string { return env[key] })
	require.Equal(t, "/tmp/w8", cfg.OutDir)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, "minio:9000", cfg.Artifact.Endpoint)
	require.Equal(t, "key", cfg.Artifact.AccessKey)
	require.False(t, cfg.Artifact.UseSSL)
	require.Equal(t, defaultBucket, cfg.Artifact.Bucket)
}

func TestSaveConfigRoundTripDropsCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".w8.yml")
	cfg := DefaultConfig()
	cfg.Path = "/src/app"
	cfg.SortMode = domain.SortByLines
	cfg.Artifact.SecretKey = "secret"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadFile(DefaultConfig(), path)
	require.NoError(t, err)
	require.Equal(t, "/src/app", loaded.Path)
	require.Equal(t, domain.SortByLines, loaded.SortMode)
	require.Empty(t, loaded.Artifact.SecretKey)
}

func TestBindScanFlagsOverrideLoadedValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutDir = "from-file"
	flags := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	BindScanFlags(flags, &cfg)

	require.NoError(t, flags.Parse([]string{"-p", "/src", "--skip-unreadable", "--format", "yaml"}))
	require.Equal(t, "/src", cfg.Path)
	require.True(t, cfg.SkipUnreadable)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, "from-file", cfg.OutDir)
}

func TestConfigPathHonoursEnv(t *testing.T) {
	t.Setenv(configEnvVar, "/etc/w8.yml")
	require.Equal(t, "/etc/w8.yml", ConfigPath())
	t.Setenv(configEnvVar, "")
	require.Equal(t, configFileName, ConfigPath())
}
