package database

import (
	"context"

	appconfig "pcshop_service/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

// NewAWSConfig builds the SDK configuration shared by DynamoDB and S3.
//
// When DynamoDBEndpoint is set (e.g. http://dynamodb:8000) DynamoDB calls
// are routed there; other services keep their default resolution.
func NewAWSConfig(ctx context.Context, c appconfig.AWSConfig) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(creds),
	}

	if c.DynamoDBEndpoint != "" {
		endpoint := c.DynamoDBEndpoint
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == dynamodb.ServiceID {
				return aws.Endpoint{URL: endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// ConnectDynamoDB creates the DynamoDB client. A config error is fatal.
func ConnectDynamoDB(ctx context.Context, c appconfig.AWSConfig) (*dynamodb.Client, aws.Config) {
	cfg, err := NewAWSConfig(ctx, c)
	if err != nil {
		logrus.Fatalf("[database] failed to create aws config: %v", err)
	}
	logrus.WithFields(logrus.Fields{"region": c.Region, "endpoint": c.DynamoDBEndpoint}).
		Info("[database] dynamodb client ready")
	return dynamodb.NewFromConfig(cfg), cfg
}
