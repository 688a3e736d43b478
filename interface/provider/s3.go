package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

const s3DefaultRegion = "eu-central-1" // region of the sentinel-s1-l1c bucket

// S3Provider implements AssetProvider for bucket-style references, downloading
// through the S3 API instead of the public HTTPS endpoint. Required for
// requester-pays buckets.
type S3Provider struct {
	region          string
	requesterPays   bool
	accessKeyId     string
	secretAccessKey string
}

// NewS3Provider creates a new AssetProvider downloading through the S3 API.
// With empty credentials, requests are anonymous.
func NewS3Provider(region string, requesterPays bool, accessKeyId, secretAccessKey string) *S3Provider {
	if region == "" {
		region = s3DefaultRegion
	}
	return &S3Provider{region: region, requesterPays: requesterPays, accessKeyId: accessKeyId, secretAccessKey: secretAccessKey}
}

// Name implements AssetProvider
func (ip *S3Provider) Name() string {
	return "S3"
}

// Download implements AssetProvider
func (ip *S3Provider) Download(ctx context.Context, href, localFile string) error {
	bucket, key, err := splitBucketKey(href)
	if err != nil {
		return fmt.Errorf("S3Provider.%w", err)
	}

	credsProvider := aws.CredentialsProvider(aws.AnonymousCredentials{})
	if ip.accessKeyId != "" {
		credsProvider = credentials.NewStaticCredentialsProvider(ip.accessKeyId, ip.secretAccessKey, "")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credsProvider),
		awsconfig.WithRegion(ip.region),
	)
	if err != nil {
		return fmt.Errorf("S3Provider.LoadDefaultConfig: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.PartSize = 10 * 1024 * 1024 // 10MB per part
	})

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if ip.requesterPays {
		input.RequestPayer = types.RequestPayerRequester
	}

	tmpFile := localFile + "." + uuid.New().String() + ".part"
	f, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("S3Provider.Create: %w", err)
	}

	if _, err := downloader.Download(ctx, f, input); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("S3Provider.Download[%s]: %w", href, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("S3Provider.Close: %w", err)
	}
	if err := os.Rename(tmpFile, localFile); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("S3Provider.Rename: %w", err)
	}
	return nil
}
