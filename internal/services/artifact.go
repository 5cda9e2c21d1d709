package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type ArtifactConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (cfg ArtifactConfig) Enabled() bool {
	return strings.TrimSpace(cfg.Endpoint) != ""
}

// ArtifactStore uploads snapshots to an S3-compatible bucket.
type ArtifactStore struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewArtifactStore(cfg ArtifactConfig) (*ArtifactStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("artifact endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("artifact access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("artifact bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init artifact client: %w", err)
	}
	return &ArtifactStore{client: client, bucketName: bucket, region: region}, nil
}

func (s *ArtifactStore) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Upload copies the snapshot file into the bucket and returns its key.
func (s *ArtifactStore) Upload(ctx context.Context, rootPath, snapshotPath string) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("artifact store is nil")
	}
	content, err := os.ReadFile(snapshotPath)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := ArtifactKey(rootPath, snapshotPath)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentTypeFor(snapshotPath),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// ArtifactKey is w8/<root base name>/<snapshot file name>.
func ArtifactKey(rootPath, snapshotPath string) string {
	project := filepath.Base(filepath.Clean(rootPath))
	if project == "." || project == string(filepath.Separator) || project == "" {
		project = "root"
	}
	return path.Join("w8", project, filepath.Base(snapshotPath))
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/json"
	}
}
