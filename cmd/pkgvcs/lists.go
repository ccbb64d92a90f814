package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsar-edit/package-vcs/storage"
)

func newBanListCmd(c *BaseCmd) *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "banlist",
		Short: "Prints the list of package names that may not be published.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLists(cmd.Context(), func(l *storage.Lists) error {
				if check != "" {
					return printResult(cmd.Context(), cmd.OutOrStdout(), l.IsBanned(cmd.Context(), check))
				}
				return printResult(cmd.Context(), cmd.OutOrStdout(), l.GetBanList(cmd.Context()))
			})
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "only report whether this name is banned")

	return cmd
}

func newFeaturedCmd(c *BaseCmd) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "Prints the featured package names.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withLists(cmd.Context(), func(l *storage.Lists) error {
				return printResult(cmd.Context(), cmd.OutOrStdout(), l.GetFeaturedPackages(cmd.Context()))
			})
		},
	}
}

// withLists runs fn against Lists backed by the configured storage. A local
// directory wins over the cloud bucket.
func (c *BaseCmd) withLists(ctx context.Context, fn func(*storage.Lists) error) error {
	var fetcher storage.Fetcher
	switch {
	case c.cfg.Storage.Dir != "":
		fetcher = storage.Dir{Root: c.cfg.Storage.Dir}
	case c.cfg.Storage.Bucket != "":
		g, err := storage.NewGCS(ctx, c.cfg.Storage.CredentialsFile)
		if err != nil {
			return err
		}
		defer func() { _ = g.Close() }()
		fetcher = g
	default:
		return fmt.Errorf("no storage configured: set storage.dir or storage.bucket")
	}

	lists, err := storage.NewLists(c.logger, fetcher, c.cfg.Storage.Bucket, c.cfg.CacheOptions()...)
	if err != nil {
		return err
	}
	return fn(lists)
}
