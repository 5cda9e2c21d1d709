package config

import "w8/internal/domain"

type Config struct {
	Path            string          `yaml:"path"`
	OutDir          string          `yaml:"out_dir"`
	Format          string          `yaml:"format"`
	SkipUnreadable  bool            `yaml:"skip_unreadable"`
	LegacyRootTotal bool            `yaml:"legacy_root_total"`
	History         bool            `yaml:"history"`
	Theme           string          `yaml:"theme"`
	SortMode        domain.SortMode `yaml:"sort_mode"`
	Artifact        ArtifactConfig  `yaml:"artifact"`
}

type ArtifactConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type fileConfig struct {
	Path            *string             `yaml:"path"`
	OutDir          *string             `yaml:"out_dir"`
	Format          *string             `yaml:"format"`
	SkipUnreadable  *bool               `yaml:"skip_unreadable"`
	LegacyRootTotal *bool               `yaml:"legacy_root_total"`
	History         *bool               `yaml:"history"`
	Theme           *string             `yaml:"theme"`
	SortMode        *string             `yaml:"sort_mode"`
	Artifact        *fileArtifactConfig `yaml:"artifact"`
}

type fileArtifactConfig struct {
	Endpoint  *string `yaml:"endpoint"`
	Region    *string `yaml:"region"`
	AccessKey *string `yaml:"access_key"`
	SecretKey *string `yaml:"secret_key"`
	Bucket    *string `yaml:"bucket"`
	UseSSL    *bool   `yaml:"use_ssl"`
}
