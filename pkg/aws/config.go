package aws

import (
	"context"
	"errors"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// ErrNoRegion means neither the environment nor the shared config named a region.
var ErrNoRegion = errors.New("aws region is not configured")

// LoadAWSConfig resolves credentials the SDK's usual way. AWS_REGION takes
// precedence over the shared config, and AWS_ENDPOINT (LocalStack) redirects
// every client built from the result.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return sdkaws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		return sdkaws.Config{}, ErrNoRegion
	}
	return cfg, nil
}
