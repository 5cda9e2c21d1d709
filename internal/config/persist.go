package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"w8/internal/domain"
)

const (
	configFileName = ".w8.yml"
	configEnvVar   = "W8_CONFIG"
	defaultOutDir  = ".w8-out"
	defaultBucket  = "w8-snapshots"
)

func DefaultConfig() Config {
	return Config{
		Path:     "",
		OutDir:   defaultOutDir,
		Format:   "json",
		History:  true,
		Theme:    "dark",
		SortMode: domain.SortByScore,
		Artifact: ArtifactConfig{
			Region: "us-east-1",
			Bucket: defaultBucket,
			UseSSL: true,
		},
	}
}

// ConfigPath is $W8_CONFIG when set, otherwise .w8.yml in the working
// directory.
func ConfigPath() string {
	if path := strings.TrimSpace(os.Getenv(configEnvVar)); path != "" {
		return path
	}
	return configFileName
}

// Load layers defaults, the YAML file, then the environment. A .env file in
// the working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()
	cfg, err := LoadFile(DefaultConfig(), ConfigPath())
	cfg = applyEnv(cfg, os.Getenv)
	return cfg, err
}

// LoadFile merges the YAML file at path over base. A missing file is not an
// error.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, err
	}
	var stored fileConfig
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return base, fmt.Errorf("parse %s: %w", path, err)
	}
	return mergeConfig(base, stored), nil
}

func SaveConfig(cfg Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	stored := cfg
	// credentials stay in the environment
	stored.Artifact.AccessKey = ""
	stored.Artifact.SecretKey = ""
	data, err := yaml.Marshal(stored)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if stored.Path != nil {
		merged.Path = *stored.Path
	}
	if stored.OutDir != nil {
		merged.OutDir = *stored.OutDir
	}
	if stored.Format != nil {
		merged.Format = *stored.Format
	}
	if stored.SkipUnreadable != nil {
		merged.SkipUnreadable = *stored.SkipUnreadable
	}
	if stored.LegacyRootTotal != nil {
		merged.LegacyRootTotal = *stored.LegacyRootTotal
	}
	if stored.History != nil {
		merged.History = *stored.History
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.SortMode != nil {
		merged.SortMode = domainSortMode(*stored.SortMode, base.SortMode)
	}
	if stored.Artifact != nil {
		merged.Artifact = mergeArtifact(base.Artifact, *stored.Artifact)
	}
	return merged
}

func mergeArtifact(base ArtifactConfig, stored fileArtifactConfig) ArtifactConfig {
	merged := base
	if stored.Endpoint != nil {
		merged.Endpoint = *stored.Endpoint
	}
	if stored.Region != nil {
		merged.Region = *stored.Region
	}
	if stored.AccessKey != nil {
		merged.AccessKey = *stored.AccessKey
	}
	if stored.SecretKey != nil {
		merged.SecretKey = *stored.SecretKey
	}
	if stored.Bucket != nil {
		merged.Bucket = *stored.Bucket
	}
	if stored.UseSSL != nil {
		merged.UseSSL = *stored.UseSSL
	}
	return merged
}

func applyEnv(cfg Config, getenv func(string) string) Config {
	if value := strings.TrimSpace(getenv("W8_OUT_DIR")); value != "" {
		cfg.OutDir = value
	}
	if value := strings.TrimSpace(getenv("W8_FORMAT")); value != "" {
		cfg.Format = value
	}
	if value := strings.TrimSpace(getenv("W8_THEME")); value != "" {
		cfg.Theme = value
	}
	cfg.Artifact.Endpoint = firstNonEmpty(strings.TrimSpace(getenv("W8_ARTIFACT_ENDPOINT")), cfg.Artifact.Endpoint)
	cfg.Artifact.Region = firstNonEmpty(strings.TrimSpace(getenv("W8_ARTIFACT_REGION")), cfg.Artifact.Region)
	cfg.Artifact.AccessKey = firstNonEmpty(strings.TrimSpace(getenv("W8_ARTIFACT_ACCESS_KEY")), cfg.Artifact.AccessKey)
	cfg.Artifact.SecretKey = firstNonEmpty(strings.TrimSpace(getenv("W8_ARTIFACT_SECRET_KEY")), cfg.Artifact.SecretKey)
	cfg.Artifact.Bucket = firstNonEmpty(strings.TrimSpace(getenv("W8_ARTIFACT_BUCKET")), cfg.Artifact.Bucket)
	if raw := strings.TrimSpace(getenv("W8_ARTIFACT_USE_SSL")); raw != "" {
		if useSSL, err := strconv.ParseBool(raw); err == nil {
			cfg.Artifact.UseSSL = useSSL
		}
	}
	return cfg
}

func domainSortMode(value string, fallback domain.SortMode) domain.SortMode {
	switch domain.SortMode(value) {
	case domain.SortByScore, domain.SortByName, domain.SortByLines:
		return domain.SortMode(value)
	default:
		return fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
