package lib

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func GetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	s3Client = s3.NewFromConfig(cfg)
	return s3Client
}

// NewS3Client Replace s3 instance with custom client implementation
func NewS3Client(c *s3.Client) *s3.Client {
	s3Client = c
	return s3Client
}

func assetsBucket() string {
	return os.Getenv("S3_ASSETS_BUCKET")
}

// S3UploadAsset stores a campus image (or any directory asset) under key.
func S3UploadAsset(ctx context.Context, key string, contentType string, body io.Reader) error {
	client := GetS3Client()
	if client == nil {
		return errors.New("s3 client unavailable")
	}
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(assetsBucket()),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	return err
}

