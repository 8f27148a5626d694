package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which starter files exist",
	Long: `Show which starter files exist in the project and the metadata stored
in About.xml. File names follow the name in About.xml when it exists,
otherwise --name or the project folder name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot(cmd)
		if err != nil {
			return err
		}

		p, err := projectFromFlags(cmd, root)
		if err != nil {
			return err
		}

		report, err := newScaffolder(root).Inspect(p)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Fprintf(out, "Project: %s\n", root)
		if !report.AssetsFound {
			fmt.Fprintf(out, "%s Assets folder not found\n", red("✗"))
			return nil
		}

		if report.About != nil {
			fmt.Fprintf(out, "\n%s\n", cyan("About"))
			fmt.Fprintf(out, "  Name:        %s\n", report.About.Name)
			fmt.Fprintf(out, "  Author:      %s\n", report.About.Author)
			fmt.Fprintf(out, "  Version:     %s\n", report.About.Version)
			fmt.Fprintf(out, "  Description: %s\n", report.About.Description)
		}

		fmt.Fprintf(out, "\n%s\n", cyan("Files"))
		for _, f := range report.Files {
			mark := red("✗")
			if f.Exists {
				mark = green("✓")
			}
			fmt.Fprintf(out, "  %s %s\n", mark, f.Path)
		}

		if report.Complete() {
			fmt.Fprintf(out, "\nSetup is complete.\n")
		} else {
			fmt.Fprintf(out, "\nSetup is incomplete. Run 'modsetup setup' to create the missing files.\n")
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().String("name", "", "Project name used when About.xml is missing")
	rootCmd.AddCommand(statusCmd)
}
