package bootstrap

import (
	"context"
	"fmt"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/devstudio-hq/orders-backend/config"
)

// OpenStorage builds the S3 client for the attachment bucket.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}
