package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	appconfig "github.com/wolfman30/jaideeclear-quotes/internal/config"
)

const (
	// AppID is sent in the SDK user agent so quote traffic is identifiable in CloudTrail.
	AppID = "jaideeclear-quotes"

	defaultRegion = "ap-southeast-1"
)

// LoadAWSConfig builds the SDK config shared by the API and the quote notifier
// Lambda. AWS_ENDPOINT_OVERRIDE sends every client (DynamoDB, SQS, S3, SES)
// to one endpoint such as LocalStack.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = defaultRegion
	}
	loaders := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithAppID(AppID),
	}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}
	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(endpoint)
	}
	return awsCfg, nil
}
