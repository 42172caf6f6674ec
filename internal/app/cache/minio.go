package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const minioTimestampKey = "created-at"

// MinioConfig locates an S3-compatible bucket for cache objects
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// MinioStore keeps one JSON object per entry at <bucket>/<videoID>.json
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects and makes sure the bucket exists
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(bucket Bucket, videoID string) string {
	return fmt.Sprintf("%s/%s.json", bucket, videoID)
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func (m *MinioStore) Get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error) {
	key := objectKey(bucket, videoID)
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, err
	}
	return &Entry{Payload: payload, Timestamp: objectTimestamp(info)}, nil
}

// objectTimestamp prefers the written timestamp over the server's LastModified
func objectTimestamp(info minio.ObjectInfo) time.Time {
	for k, v := range info.UserMetadata {
		if strings.EqualFold(k, minioTimestampKey) || strings.EqualFold(k, "X-Amz-Meta-"+minioTimestampKey) {
			if millis, err := strconv.ParseInt(v, 10, 64); err == nil {
				return time.UnixMilli(millis)
			}
		}
	}
	return info.LastModified
}

func (m *MinioStore) Set(ctx context.Context, bucket Bucket, videoID string, entry Entry) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectKey(bucket, videoID),
		bytes.NewReader(entry.Payload), int64(len(entry.Payload)), minio.PutObjectOptions{
			ContentType: "application/json",
			UserMetadata: map[string]string{
				minioTimestampKey: strconv.FormatInt(entry.Timestamp.UnixMilli(), 10),
			},
		})
	return err
}

func (m *MinioStore) Delete(ctx context.Context, bucket Bucket, videoID string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectKey(bucket, videoID), minio.RemoveObjectOptions{})
}

func (m *MinioStore) Sweep(ctx context.Context, bucket Bucket, cutoff time.Time) (int, error) {
	removed := 0
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:       string(bucket) + "/",
		WithMetadata: true,
	}) {
		if obj.Err != nil {
			return removed, obj.Err
		}
		if !objectTimestamp(obj).Before(cutoff) {
			continue
		}
		if err := m.client.RemoveObject(ctx, m.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (m *MinioStore) Close() error {
	return nil
}
