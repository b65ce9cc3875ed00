package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biomed-cmms/cmms-access/internal/auth"
	"github.com/biomed-cmms/cmms-access/internal/web/navigation"
)

// ErrUnknownRole is returned by nav for a role outside the enumeration.
var ErrUnknownRole = errors.New("unknown role")

func init() { //nolint: gochecknoinits
	navCmd.Flags().BoolVar(&navJSON, "json", false, "Print the sections as JSON")

	rootCmd.AddCommand(navCmd)
}

var (
	navJSON bool

	navCmd = &cobra.Command{
		Use:   "nav <role>",
		Short: "Print the side menu a role sees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := auth.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownRole, args[0])
			}

			sections := navigation.Build(navigation.DefaultMenu(), role)
			out := cmd.OutOrStdout()

			if navJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(sections)
			}

			for _, s := range sections {
				if _, err := fmt.Fprintln(out, s.Label); err != nil {
					return err
				}

				for _, item := range s.Items {
					if _, err := fmt.Fprintf(out, "  %-24s %s\n", item.Label, item.Path); err != nil {
						return err
					}
				}
			}

			return nil
		},
	}
)
