package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	vcs "github.com/pulsar-edit/package-vcs"
)

func newPackageCmd(c *BaseCmd) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "package <owner/repo>",
		Short: "Builds the package record for a new package.",
		Long: `Fetches the repository, its package.json, tags and readme, and prints the
package record that would be published for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerRepo := strings.TrimSpace(args[0])
			if ownerRepo == "" {
				return fmt.Errorf("repository is required and cannot be empty")
			}
			return c.withService(func(svc *vcs.Service) error {
				res := svc.NewPackageData(cmd.Context(), c.user(), ownerRepo, service)
				return printResult(cmd.Context(), cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&service, "service", vcs.DefaultService, "hosting service key")

	return cmd
}

func newVersionCmd(c *BaseCmd) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "version <owner/repo>",
		Short: "Builds the version record for a package's current manifest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerRepo := strings.TrimSpace(args[0])
			if ownerRepo == "" {
				return fmt.Errorf("repository is required and cannot be empty")
			}
			return c.withService(func(svc *vcs.Service) error {
				res := svc.NewVersionData(cmd.Context(), c.user(), ownerRepo, service)
				return printResult(cmd.Context(), cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&service, "service", vcs.DefaultService, "hosting service key")

	return cmd
}

func newOwnershipCmd(c *BaseCmd) *cobra.Command {
	var repoType string

	cmd := &cobra.Command{
		Use:   "ownership <repository-url>",
		Short: "Prints the caller's role on a package's repository.",
		Long: `Looks the caller (--node-id) up in the repository's collaborator list and
prints the role they hold. Requires --token.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg := vcs.PackageRecord{
				Repository: vcs.Repository{Type: repoType, URL: strings.TrimSpace(args[0])},
			}
			return c.withService(func(svc *vcs.Service) error {
				res := svc.Ownership(cmd.Context(), c.user(), pkg)
				return printResult(cmd.Context(), cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&repoType, "type", vcs.DefaultService, "repository type recorded on the package")

	return cmd
}
