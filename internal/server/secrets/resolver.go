// Package secrets resolves database credentials from AWS Secrets Manager.
package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/dmitrijs2005/gophgallery/internal/metrics"
)

// SecretsAPI is the part of the Secrets Manager client the resolver needs.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ClientConfig configures the Secrets Manager client built at startup.
type ClientConfig struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewClient builds the process-wide Secrets Manager client. Static
// credentials are used when AccessKey is set, otherwise the default AWS
// credential chain applies.
func NewClient(ctx context.Context, c ClientConfig) (*secretsmanager.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithRetryMaxAttempts(1),
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
	}), nil
}

// Resolver fetches and decodes the database secret. It does not cache:
// every call is a fresh round trip to the secret store.
type Resolver struct {
	api    SecretsAPI
	logger logging.Logger
}

func NewResolver(api SecretsAPI, logger logging.Logger) *Resolver {
	return &Resolver{api: api, logger: logger.With("module", "secrets")}
}

// ResolveDBSecret returns the credentials stored under secretID.
//
// Failures match common.ErrSecretUnavailable when the store cannot return a
// value and common.ErrSecretMalformed when the payload is not the expected
// JSON object.
func (r *Resolver) ResolveDBSecret(ctx context.Context, secretID string) (*Bundle, error) {
	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		metrics.SecretFetches.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %q: %w", common.ErrSecretUnavailable, secretID, err)
	}

	var b *Bundle
	switch {
	case out.SecretString != nil:
		b, err = ParseString(*out.SecretString)
	case len(out.SecretBinary) > 0:
		b, err = ParseBinary(out.SecretBinary)
	default:
		metrics.SecretFetches.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("%w: %q has no value", common.ErrSecretUnavailable, secretID)
	}
	if err != nil {
		metrics.SecretFetches.WithLabelValues(metrics.ResultFailure).Inc()
		r.logger.Warn(ctx, "secret payload rejected", "secret_id", secretID, "error", err.Error())
		return nil, err
	}

	metrics.SecretFetches.WithLabelValues(metrics.ResultSuccess).Inc()
	return b, nil
}
