// Package aws wraps the AWS SDK clients shared by the marketplace services.
// Every client is built from LoadConfig, so a single AWS_ENDPOINT variable
// points the whole stack at LocalStack during development.
package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultRegion is used when neither the shared config nor AWS_REGION name one.
const DefaultRegion = "us-east-1"

// LoadConfig loads the default AWS config. When AWS_ENDPOINT is set every
// service client resolves to that URL and signs with static credentials
// taken from AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY ("test" when unset).
func LoadConfig(ctx context.Context) (sdkaws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if provider := localCredentials(); provider != nil {
		opts = append(opts, config.WithCredentialsProvider(provider))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = getEnv("AWS_REGION", DefaultRegion)
	}

	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		cfg.EndpointResolverWithOptions = localEndpoint(endpoint, cfg.Region)
	}
	return cfg, nil
}

// localCredentials returns nil outside LocalStack so the default chain
// (env, shared files, instance role) applies.
func localCredentials() sdkaws.CredentialsProvider {
	if os.Getenv("AWS_ENDPOINT") == "" {
		return nil
	}
	return credentials.NewStaticCredentialsProvider(
		getEnv("AWS_ACCESS_KEY_ID", "test"),
		getEnv("AWS_SECRET_ACCESS_KEY", "test"),
		"",
	)
}

func localEndpoint(url, signingRegion string) sdkaws.EndpointResolverWithOptions {
	return sdkaws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (sdkaws.Endpoint, error) {
		sr := signingRegion
		if sr == "" {
			sr = region
		}
		return sdkaws.Endpoint{
			URL:               url,
			SigningRegion:     sr,
			HostnameImmutable: true,
		}, nil
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
