package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Client talks to the managed object store's S3-compatible endpoint.
// Uploaded study material lives in a single uploads bucket.
type Client struct {
	s3Client   *s3.Client
	bucketName string
}

// NewClient creates a storage client from environment variables. It returns
// (nil, nil) when the storage endpoint is not fully configured, allowing the
// guest-only deployment to run without object storage.
func NewClient(ctx context.Context) (*Client, error) {
	endpoint := os.Getenv("STORAGE_ENDPOINT")
	accessKeyID := os.Getenv("STORAGE_ACCESS_KEY_ID")
	secretAccessKey := os.Getenv("STORAGE_SECRET_ACCESS_KEY")
	bucketName := os.Getenv("STORAGE_BUCKET")
	if bucketName == "" {
		bucketName = "uploads"
	}

	if endpoint == "" || accessKeyID == "" || secretAccessKey == "" {
		log.Println("WARN: storage environment variables not fully configured (STORAGE_ENDPOINT, STORAGE_ACCESS_KEY_ID, STORAGE_SECRET_ACCESS_KEY). File storage will be unavailable.")
		return nil, nil
	}

	region := os.Getenv("STORAGE_REGION")
	if region == "" {
		region = "auto"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		// Supabase/R2-style endpoints route by path, not by bucket subdomain.
		o.UsePathStyle = true
	})

	log.Printf("INFO: storage client initialized for bucket '%s'", bucketName)
	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
	}, nil
}

// Download fetches the object stored at path inside the uploads bucket.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file (key: %s): %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body (key: %s): %w", path, err)
	}
	return data, nil
}

// Upload stores content under a key namespaced by user id and upload
// timestamp, and returns that key for later download via /api/generate.
func (c *Client) Upload(ctx context.Context, userID uuid.UUID, filename string, content io.Reader) (string, error) {
	objectKey := fmt.Sprintf("%s/%d_%s", userID.String(), time.Now().Unix(), filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file (key: %s): %w", objectKey, err)
	}

	log.Printf("INFO: uploaded file to storage: %s", objectKey)
	return objectKey, nil
}
