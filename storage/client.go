// Package storage provides access to the object store holding page images,
// block manifests and narration audio.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/tishamal/righttoread/config"
	"github.com/tishamal/righttoread/review"
)

// Client wraps the S3 API for one bucket. It implements review.ObjectStore.
type Client struct {
	api     *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	log     *zap.Logger
}

// NewClient builds a bucket client from configuration. When no static
// credentials are configured the standard AWS credential chain is used; a
// non-empty endpoint switches to path style addressing for S3-compatible
// servers.
func NewClient(ctx context.Context, conf *config.StorageConfig, log *zap.Logger) (*Client, error) {

	if log == nil {
		log = zap.NewNop()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(conf.Region),
	}
	if len(conf.AccessKeyID) != 0 && len(conf.SecretAccessKey) != 0 {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(string(conf.AccessKeyID), string(conf.SecretAccessKey), "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS configuration: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if len(conf.Endpoint) != 0 {
			o.BaseEndpoint = aws.String(conf.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{
		api:     api,
		presign: s3.NewPresignClient(api),
		bucket:  conf.Bucket,
		ttl:     conf.URLTTL(),
		log:     log,
	}, nil
}

// Fetch downloads one object. A missing key is reported as
// review.ErrObjectNotFound so callers can distinguish absence from outage.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", key, review.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("unable to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", key, err)
	}
	return data, nil
}

// ResolveURLs mints temporary access URLs for the given keys. Keys that
// cannot be presigned are omitted from the result rather than failing the
// whole batch.
func (c *Client) ResolveURLs(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(c.ttl))
		if err != nil {
			c.log.Warn("Unable to presign object URL", zap.String("key", key), zap.Error(err))
			continue
		}
		out[key] = req.URL
	}
	return out, nil
}

// Upload stores one object, sniffing its content type from the payload and
// falling back to the key extension for text formats the sniffer cannot
// recognize.
func (c *Client) Upload(ctx context.Context, key string, data []byte) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType(key, data)),
	})
	if err != nil {
		return fmt.Errorf("unable to upload %s: %w", key, err)
	}
	return nil
}

// Delete removes one object. Deleting an absent key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("unable to delete %s: %w", key, err)
	}
	return nil
}

// List returns all object keys under a prefix in natural order.
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	SortKeys(keys)
	return keys, nil
}

// ContentType determines the MIME type to store alongside an object.
func ContentType(key string, data []byte) string {
	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		return t.MIME.Value
	}
	// text formats are invisible to magic-number sniffing
	switch filepath.Ext(key) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".xml", ".ssml":
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
