package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS fetches objects from Google Cloud Storage.
type GCS struct {
	client *gcs.Client
}

var _ Fetcher = (*GCS)(nil)

// NewGCS creates a GCS fetcher. An empty credentialsFile uses Application
// Default Credentials.
func NewGCS(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*GCS, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

// Fetch downloads the whole object.
func (g *GCS) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("opening gs://%s/%s: %w", bucket, key, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading gs://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
