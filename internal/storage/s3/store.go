// Package s3 stores order attachments in an S3 bucket, publicly readable
// by URL once uploaded.
package s3

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/devstudio-hq/orders-backend/config"
)

type Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewStore(client *s3.Client, cfg config.StorageConfig) *Store {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload writes one attachment under a key namespaced by the order id and
// returns the public URL. Key layout: {orderId}/{timestamp}-{random}.{ext}
func (s *Store) Upload(ctx context.Context, orderID, fileName, contentType string, body io.Reader) (string, error) {
	key := objectKey(orderID, fileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

func objectKey(orderID, fileName string) string {
	ext := filepath.Ext(fileName)
	rand := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s/%d-%s%s", orderID, time.Now().UnixMilli(), rand, ext)
}
