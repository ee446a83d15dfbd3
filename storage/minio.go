package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"JerseyFM/config"
	"JerseyFM/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo 文件信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// MinioSource reads staged files from a MinIO/S3 bucket.
type MinioSource struct {
	client     *minio.Client
	bucketName string
}

// NewMinioSource 创建 MinIO 暂存源 and makes sure the bucket exists.
func NewMinioSource(ctx context.Context, cfg *config.Config) (*MinioSource, error) {
	logger.Info("正在连接 MinIO 服务器",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("成功创建存储桶", logger.String("bucket", cfg.MinioBucket))
	}

	return &MinioSource{client: client, bucketName: cfg.MinioBucket}, nil
}

func objectKey(name string) string {
	return strings.TrimLeft(name, "/")
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// Stat implements Source.
func (m *MinioSource) Stat(ctx context.Context, name string) (int64, error) {
	info, err := m.client.StatObject(ctx, m.bucketName, objectKey(name), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, fmt.Errorf("%w: %s/%s", ErrNotFound, m.bucketName, objectKey(name))
		}
		return 0, fmt.Errorf("stat object %s: %w", objectKey(name), err)
	}
	return info.Size, nil
}

// Open implements Source.
func (m *MinioSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, objectKey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", objectKey(name), err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, m.bucketName, objectKey(name))
		}
		return nil, fmt.Errorf("get object %s: %w", objectKey(name), err)
	}
	return obj, nil
}

// List 列出暂存桶中指定前缀的对象
func (m *MinioSource) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for object := range m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}
	return objects, nil
}

// NewSource picks the staging backend named in the config.
func NewSource(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.StagingBackend {
	case "", "local":
		return NewLocalSource(cfg.PublicDir), nil
	case "minio":
		return NewMinioSource(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.StagingBackend)
	}
}
