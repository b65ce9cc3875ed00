package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/catalog"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <role> <resource> <action>",
	Short: "Answer whether a role holds an action on a resource",
	Long: `Looks the triple up in the catalog grants. The last matching grant decides,
anything without a grant is denied. Unknown ids are denied, not rejected.`,
	Args: cobra.ExactArgs(3), //nolint:mnd
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		answer := "denied"
		if auth.Lookup(cat.Grants(), auth.Role(args[0]), args[1], args[2]) {
			answer = "allowed"
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s: %s\n", args[0], args[1], args[2], answer)

		return err
	},
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default()
	}

	return catalog.Load(catalogPath)
}
