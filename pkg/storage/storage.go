// Package storage 封装 S3 兼容对象存储（AWS S3 / DigitalOcean Spaces / MinIO），
// 用于保存周报附件。
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/Maddrobots/hangar13demo/config"
)

// ErrDisabled 未配置对象存储
var ErrDisabled = errors.New("对象存储未配置")

// ObjectStore 附件存储接口
type ObjectStore interface {
	// Put 上传对象并返回可访问的 URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3Store 基于 aws-sdk-go 的 S3 兼容实现
type S3Store struct {
	client        *s3.S3
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewS3Store 创建 S3 客户端；未配置 bucket 时返回 ErrDisabled
func NewS3Store(cfg *config.StorageConfig, logger *zap.Logger) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.PathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("创建对象存储会话失败: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = defaultPublicBaseURL(cfg)
	}

	logger.Info("对象存储已启用", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))

	return &S3Store{
		client:        s3.New(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		logger:        logger,
	}, nil
}

func defaultPublicBaseURL(cfg *config.StorageConfig) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Put 上传对象
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Error("上传对象失败", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("上传对象失败: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

// Delete 删除对象
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("删除对象失败: %w", err)
	}
	return nil
}
