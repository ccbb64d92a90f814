package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	vcs "github.com/pulsar-edit/package-vcs"
	_ "github.com/pulsar-edit/package-vcs/all"
	"github.com/pulsar-edit/package-vcs/config"
)

// BaseCmd holds the global flags and the loaded configuration shared by
// every subcommand.
type BaseCmd struct {
	logger hclog.Logger
	cfg    *config.Config

	configPath string
	token      string
	nodeID     string
	username   string
}

// NewRootCmd creates the pkgvcs command tree.
func NewRootCmd(logger hclog.Logger) *cobra.Command {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &BaseCmd{logger: logger}

	rootCmd := &cobra.Command{
		Use:               "pkgvcs <command> [args]",
		Short:             "Builds package registry records from hosted repositories.",
		SilenceUsage:      true,
		Version:           version,
		PersistentPreRunE: c.load,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "path to a TOML config file")
	pf.StringVar(&c.token, "token", "", "hosting API token, sent verbatim as the Authorization header")
	pf.StringVar(&c.nodeID, "node-id", "", "hosting node id of the caller")
	pf.StringVar(&c.username, "username", "", "registry username of the caller")

	rootCmd.AddCommand(newPackageCmd(c))
	rootCmd.AddCommand(newVersionCmd(c))
	rootCmd.AddCommand(newOwnershipCmd(c))
	rootCmd.AddCommand(newBanListCmd(c))
	rootCmd.AddCommand(newFeaturedCmd(c))

	return rootCmd
}

func (c *BaseCmd) load(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger.SetLevel(hclog.LevelFromString(cfg.Log.Level))
	c.logger.Debug("configuration loaded", "path", c.configPath, "api_url", cfg.Hosting.APIURL)
	return nil
}

func (c *BaseCmd) user() vcs.User {
	return vcs.User{
		Username: strings.TrimSpace(c.username),
		Token:    c.token,
		NodeID:   strings.TrimSpace(c.nodeID),
	}
}

// withService runs fn against a Service built from the loaded configuration.
func (c *BaseCmd) withService(fn func(*vcs.Service) error) error {
	client := vcs.NewClient(c.cfg.ClientOptions(c.logger)...)
	defer client.Close()

	return fn(vcs.NewService(client, c.cfg.ServiceOptions(c.logger)...))
}

// printResult writes the JSON envelope and turns a failed result into an error.
func printResult[T any](ctx context.Context, w io.Writer, res vcs.Result[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(out)); err != nil {
		return err
	}
	if !res.OK {
		return &fail{short: res.Short}
	}
	return nil
}
