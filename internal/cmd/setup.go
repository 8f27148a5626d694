package cmd

import (
	"errors"
	"fmt"
	"io"

	textio "github.com/chriscorrea/modsetup/internal/io"
	"github.com/chriscorrea/modsetup/internal/scaffold"
	"github.com/chriscorrea/modsetup/internal/verbose"
	"github.com/chriscorrea/modsetup/internal/wizard"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the setup wizard and write all starter files",
	Long: `Run the setup wizard and write all starter files.

Flags prefill the form. With --yes no prompts are shown and the flag values
(or the defaults derived from the project folder) are used as they are.
With --confirm the wizard first asks to complete setup now.`,
	Example: `  modsetup setup
  modsetup setup --project ./MyMod --name "My Mod" --yes
  modsetup setup --description "Adds rockets" --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot(cmd)
		if err != nil {
			return err
		}

		defaults, err := projectFromFlags(cmd, root)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		confirm, _ := cmd.Flags().GetBool("confirm")

		mode := wizard.Window
		switch {
		case yes:
			mode = wizard.NonInteractive
		case confirm:
			mode = wizard.Modal
		}

		p, err := newWizard(cmd).Run(mode, defaults)
		if err != nil {
			return err
		}

		return completeSetup(cmd, root, p)
	},
}

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Write About.xml with preview and thumbnail images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerator(cmd, func(s *scaffold.Scaffolder, p scaffold.Project) ([]scaffold.Result, error) {
			return s.CreateAbout(p)
		})
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write the starter script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerator(cmd, func(s *scaffold.Scaffolder, p scaffold.Project) ([]scaffold.Result, error) {
			res, err := s.CreateScript(p)
			return []scaffold.Result{res}, err
		})
	},
}

var asmdefCmd = &cobra.Command{
	Use:   "asmdef",
	Short: "Write the assembly definition and request compilation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerator(cmd, func(s *scaffold.Scaffolder, p scaffold.Project) ([]scaffold.Result, error) {
			res, err := s.CreateAssembly(p)
			return []scaffold.Result{res}, err
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{setupCmd, aboutCmd, scriptCmd, asmdefCmd} {
		addProjectFlags(c.Flags())
		rootCmd.AddCommand(c)
	}

	addSetupFlags(setupCmd.Flags())
	setupCmd.MarkFlagsMutuallyExclusive("yes", "confirm")
}

// addProjectFlags registers the flags that prefill the project form
func addProjectFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "Project name (default: project folder name)")
	flags.String("namespace", "", "Root namespace (default: name with spaces as underscores)")
	flags.String("description", "", `Project description ("-" reads stdin, "@file" reads a file)`)
	flags.String("version", "", "Product version (overrides --product-version)")
}

// addSetupFlags registers the presentation flags of the setup command
func addSetupFlags(flags *pflag.FlagSet) {
	flags.BoolP("yes", "y", false, "Skip the prompts and use flag values")
	flags.Bool("confirm", false, "Ask to complete setup before showing the form")
}

// projectFromFlags builds the project from folder defaults overridden by flags
func projectFromFlags(cmd *cobra.Command, root string) (scaffold.Project, error) {
	p := wizard.Defaults(root)

	flags := map[string]*string{
		"name":        &p.Name,
		"namespace":   &p.Namespace,
		"description": &p.Description,
		"version":     &p.Version,
	}
	for name, dst := range flags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return p, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = value
	}

	description, err := textio.ReadText(state.stdin, p.Description)
	if err != nil {
		return p, fmt.Errorf("failed to read description: %w", err)
	}
	p.Description = description

	// a renamed project without an explicit namespace follows the new name
	if cmd.Flags().Changed("name") && !cmd.Flags().Changed("namespace") {
		p.Namespace = ""
	}

	return p, nil
}

// runGenerator runs one scaffold step for the project described by the flags
func runGenerator(cmd *cobra.Command, step func(*scaffold.Scaffolder, scaffold.Project) ([]scaffold.Result, error)) error {
	root, err := projectRoot(cmd)
	if err != nil {
		return err
	}

	p, err := projectFromFlags(cmd, root)
	if err != nil {
		return err
	}
	results, err := step(newScaffolder(root), p)
	printResults(cmd.ErrOrStderr(), results)
	return explainError(err, root)
}

// completeSetup writes every starter file for p
func completeSetup(cmd *cobra.Command, root string, p scaffold.Project) error {
	verbose.PrintProject(p, state.manager.Config(), verbose.DefaultOutputConfig(cmd.ErrOrStderr()))

	results, err := newScaffolder(root).Setup(p)
	printResults(cmd.ErrOrStderr(), results)
	if err != nil {
		return explainError(err, root)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s Setup is complete. The project will now recompile.\n", green("✓"))
	return nil
}

// printResults prints one line per generated file
func printResults(w io.Writer, results []scaffold.Result) {
	created := color.New(color.FgGreen).SprintFunc()
	skipped := color.New(color.FgYellow).SprintFunc()

	for _, r := range results {
		if r.Path == "" {
			continue
		}
		switch r.Status {
		case scaffold.StatusCreated:
			fmt.Fprintf(w, "  %s %s\n", created("created"), r.Path)
		default:
			fmt.Fprintf(w, "  %s %s (already exists)\n", skipped("skipped"), r.Path)
		}
	}
}

// explainError adds the project root to a missing Assets error
func explainError(err error, root string) error {
	if errors.Is(err, scaffold.ErrAssetsNotFound) {
		return fmt.Errorf("%w in %s (use --project to point at the project root)", err, root)
	}
	return err
}
