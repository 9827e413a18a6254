package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Store struct { // implements Store
	client *s3.Client

	bucket string

	// publicBaseURL is the base under which uploaded objects are served,
	// e.g. a CDN or the bucket's public endpoint.
	publicBaseURL string
}

func NewS3Store(accessKeyID, accessKeySecret, region, baseEndpoint, bucket, publicBaseURL string) *S3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		blobLogger.Fatal().Err(err).Msg("Error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &S3Store{
		client: client,

		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, path string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", path, err)
	}

	blobLogger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Photo uploaded")
	return s.publicBaseURL + "/" + path, nil
}

func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.publicBaseURL+"/")
	if key == url && !strings.HasPrefix(url, "recipes/") {
		return fmt.Errorf("url %s is not under this store", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting %s: %w", key, err)
	}

	return nil
}
