package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biomed-cmms/cmms-access/internal/config"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as JSON, secrets omitted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		js, err := config.DumpConfigJSON(c)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), js)

		return err
	},
}
