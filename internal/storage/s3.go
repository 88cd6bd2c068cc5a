// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage uploads article cover images to the hosted backend's
// S3-compatible storage endpoint and builds their public URLs. It wraps
// the AWS SDK v2 configured for path-style access, which the backend's
// storage gateway requires.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps an S3 client for the single public image bucket.
type Client struct {
	s3         *s3.Client
	bucket     string
	backendURL string
}

// New creates a storage client against the backend's S3-compatible
// endpoint (backendURL + /storage/v1/s3). Returns (nil, nil) when the
// credentials are empty, allowing the app to start with uploads disabled.
func New(backendURL, region, accessKey, secretKey, bucket string) (*Client, error) {
	if accessKey == "" || secretKey == "" {
		return nil, nil
	}

	backendURL = strings.TrimRight(backendURL, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(backendURL + "/storage/v1/s3"),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:         s3Client,
		bucket:     bucket,
		backendURL: backendURL,
	}, nil
}

// Upload stores a cover image under the given key and returns its public
// URL. No retry: a failed upload propagates to the editor as-is.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object. Used when an upload is replaced.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the backend's public object URL for a key.
func (c *Client) FileURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.backendURL, c.bucket, key)
}

// KeyFromURL extracts the object key from one of this client's public
// URLs. Returns false for URLs that point anywhere else, so externally
// hosted images are never touched.
func (c *Client) KeyFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.backendURL, c.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// ObjectKey derives a unique storage key for an uploaded file from the
// upload time and the original filename. Characters outside a safe set
// are replaced so the key survives URL building.
func ObjectKey(filename string) string {
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFilename(filename))
}

// sanitizeFilename keeps letters, digits, dots, and hyphens; everything
// else becomes an underscore.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
