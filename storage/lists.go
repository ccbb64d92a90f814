package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/pulsar-edit/package-vcs/cache"
	"github.com/pulsar-edit/package-vcs/internal/core"
)

// Lists serves the ban list and the featured packages list from a bucket,
// each behind its own TTL cache slot.
// NewLists should be used to create instances of Lists.
type Lists struct {
	bucket   string
	fetcher  Fetcher
	logger   hclog.Logger
	banList  *cache.Slot[[]string]
	featured *cache.Slot[[]string]
}

// NewLists creates a Lists reading from bucket through fetcher.
// opts configure both cache slots.
func NewLists(logger hclog.Logger, fetcher Fetcher, bucket string, opts ...cache.Option) (*Lists, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("storage fetcher cannot be nil")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	l := &Lists{
		bucket:  bucket,
		fetcher: fetcher,
		logger:  logger.Named("storage"),
	}

	slotOpts := append([]cache.Option{cache.WithLogger(l.logger)}, opts...)

	var err error
	if l.banList, err = cache.NewSlot(BanListKey, l.loader(BanListKey), slotOpts...); err != nil {
		return nil, err
	}
	if l.featured, err = cache.NewSlot(FeaturedPackagesKey, l.loader(FeaturedPackagesKey), slotOpts...); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Lists) loader(key string) cache.Loader[[]string] {
	return func(ctx context.Context) ([]string, error) {
		data, err := l.fetcher.Fetch(ctx, l.bucket, key)
		if err != nil {
			return nil, err
		}
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		l.logger.Debug("list loaded", "key", key, "entries", len(names))
		return names, nil
	}
}

// GetBanList returns the names that may not be published.
func (l *Lists) GetBanList(ctx context.Context) core.Result[[]string] {
	return l.get(ctx, l.banList, BanListKey)
}

// GetFeaturedPackages returns the names of the featured packages.
func (l *Lists) GetFeaturedPackages(ctx context.Context) core.Result[[]string] {
	return l.get(ctx, l.featured, FeaturedPackagesKey)
}

// IsBanned reports whether name appears on the ban list.
func (l *Lists) IsBanned(ctx context.Context, name string) core.Result[bool] {
	res := l.GetBanList(ctx)
	if !res.OK {
		return core.Failure[bool](res.Short, res.Message, res.Err)
	}
	return core.Success(slices.Contains(res.Content, name))
}

func (l *Lists) get(ctx context.Context, slot *cache.Slot[[]string], key string) core.Result[[]string] {
	names, err := slot.Get(ctx)
	if err != nil {
		l.logger.Error("list unavailable", "key", key, "error", err)
		return core.Failure[[]string](core.ShortServerError, fmt.Sprintf("Failed to get %s - Server Error: %v", key, err), err)
	}
	return core.Success(names)
}
