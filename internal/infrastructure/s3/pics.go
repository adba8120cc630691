package s3infra

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clubhub-api/internal/config"
	"github.com/clubhub-api/internal/domain"
)

// PicStore keeps member and event pictures in S3. Clients submit pictures
// either as a plain URL (stored as-is) or as a data URI
// ("data:image/png;base64,..."), which gets decoded and uploaded.
type PicStore struct {
	client *s3.Client
	bucket string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for S3: " + err.Error())
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewPicStore creates a PicStore with the given S3 client and bucket name.
func NewPicStore(client *s3.Client, bucket string) *PicStore {
	return &PicStore{client: client, bucket: bucket}
}

// Resolve turns a client-submitted pic value into a stored URL.
// Data URIs are uploaded under key; anything else passes through untouched.
func (s *PicStore) Resolve(ctx context.Context, key, pic string) (string, error) {
	if !strings.HasPrefix(pic, "data:image/") {
		return pic, nil
	}
	contentType, b64, err := splitDataURI(pic)
	if err != nil {
		return "", err
	}
	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode pic data: %w", domain.ErrBadRequest)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(decoded),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Delete removes a stored picture.
func (s *PicStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func splitDataURI(uri string) (contentType, data string, err error) {
	rest := strings.TrimPrefix(uri, "data:")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return "", "", fmt.Errorf("malformed data URI: %w", domain.ErrBadRequest)
	}
	return rest[:semi], rest[semi+len(";base64,"):], nil
}
