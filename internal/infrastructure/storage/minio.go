package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-tasks/pkg/config"
)

// MinIOClient wraps MinIO operations for archiving pipeline artifacts
// (raw transcripts and model responses, kept for debugging extraction runs)
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates a new MinIO client and ensures the bucket exists
func NewMinIOClient(cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// uploadBytes uploads a payload to MinIO
func (m *MinIOClient) uploadBytes(ctx context.Context, objectName string, payload []byte, contentType string) error {
	var reader io.Reader = bytes.NewReader(payload)
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// ArchiveRawTranscript stores the agent's raw transcript payload before any
// processing, named by meeting and capture time
func (m *MinIOClient) ArchiveRawTranscript(ctx context.Context, meetingID string, raw []byte) error {
	objectName := fmt.Sprintf("transcripts/%s/raw_%s.json", meetingID, time.Now().UTC().Format("20060102_150405"))
	return m.uploadBytes(ctx, objectName, raw, "application/json")
}

// ArchiveModelResponse stores the model's raw reply for an extraction or
// modification round, before parsing
func (m *MinIOClient) ArchiveModelResponse(ctx context.Context, meetingID, stage string, response []byte) error {
	objectName := fmt.Sprintf("llm/%s/%s_%s.json", meetingID, stage, time.Now().UTC().Format("20060102_150405"))
	return m.uploadBytes(ctx, objectName, response, "application/json")
}
