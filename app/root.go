// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
	rootCmd.PersistentFlags().StringVar(
		&catalogPath,
		"catalog",
		"",
		"Catalog file used by check and nav (default: the embedded seed)",
	)
}

var (
	configPath  string // Directory of the configuration file
	catalogPath string // Catalog file overriding the embedded seed

	rootCmd = &cobra.Command{
		Use:   "cmms-access",
		Short: "cmms-access serves roles, permissions and navigation of the biomedical CMMS",
		Long: `cmms-access owns the access-control catalog of the biomedical equipment CMMS:
roles, the resource tree, permission grants, role-gated navigation and the
permission matrix editor used by tenant and platform administrators.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
