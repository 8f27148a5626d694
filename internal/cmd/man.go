package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manCmd = &cobra.Command{
	Use:    "man [dir]",
	Short:  "Generate man pages for modsetup",
	Long:   `This command generates the man pages for the modsetup CLI into dir (default ./man).`,
	Hidden: true, // hide this from the public help output
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./man"
		if len(args) == 1 {
			dir = args[0]
		}

		header := &doc.GenManHeader{
			Title:   "MODSETUP",
			Section: "1", // executable programs and shell commands
			Source:  "modsetup " + version,
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create man directory: %w", err)
		}

		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Man pages generated in %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(manCmd)
}
