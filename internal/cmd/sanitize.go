package cmd

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/modsetup/internal/naming"

	"github.com/spf13/cobra"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <text...>",
	Short: "Print the identifier generated for a name",
	Long: `Print the identifier modsetup derives from a name. Arguments are joined
with spaces, so quoting is optional.

Examples:
  modsetup sanitize my cool_mod!!   # MyCoolMod
  modsetup sanitize "123abc"        # Abc`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), naming.Sanitize(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}
