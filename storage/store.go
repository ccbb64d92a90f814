// Package storage reads registry-wide lists from object storage and serves
// them through a TTL cache.
package storage

import (
	"context"
	"errors"
)

const (
	// BanListKey is the object holding the list of banned package names.
	BanListKey = "name_ban_list.json"

	// FeaturedPackagesKey is the object holding the featured package names.
	FeaturedPackagesKey = "featured_packages.json"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// Fetcher reads whole objects from a bucket.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}
