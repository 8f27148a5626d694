package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chriscorrea/modsetup/internal/config"
	"github.com/chriscorrea/modsetup/internal/host"
	"github.com/chriscorrea/modsetup/internal/logger"
	"github.com/chriscorrea/modsetup/internal/scaffold"
	"github.com/chriscorrea/modsetup/internal/wizard"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// current version (hardcoded for now, could be replaced with build flags)
const version = "0.1.0"

// defaultConfigPath is used when --config is not given
const defaultConfigPath = "~/.modsetup/config.toml"

// rootCmdState holds what every command shares
type rootCmdState struct {
	manager *config.Manager
	logger  *slog.Logger

	// fs is where project files are written
	fs afero.Fs
	// ask overrides the survey prompt function, nil means survey.AskOne
	ask wizard.AskFunc
	// stdin is read for flag values given as "-"
	stdin *os.File
}

// state is the global state instance for the root command
var state = &rootCmdState{fs: afero.NewOsFs(), stdin: os.Stdin}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "modsetup",
	Version: version,
	Short:   "Set up a new mod project",
	Long: `modsetup is a one-time setup wizard for mod projects.

It asks for a name, namespace and description, then writes the starter files
into the project's Assets folder:
  • About/About.xml with preview and thumbnail images
  • Scripts/<Name>.cs, a starter MonoBehaviour
  • <Name>.asmdef, the assembly definition

Existing files are never overwritten.`,
	SilenceUsage: true, // Don't show usage after errors
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return fmt.Errorf("failed to get debug flag: %w", err)
		}
		state.logger = logger.New(debug, cmd.ErrOrStderr())

		state.manager = config.NewManager().WithLogger(state.logger)

		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("failed to get config flag: %w", err)
		}
		if configPath == "" {
			configPath = defaultConfigPath
		}

		configPath, err = config.ExpandHomePath(configPath)
		if err != nil {
			return fmt.Errorf("failed to expand home path: %w", err)
		}

		// bind persistent flags to their corresponding Viper keys
		viper := state.manager.Viper()
		flagBindings := map[string]string{
			"company":         "player.company_name",
			"product-version": "player.product_version",
			"compile-command": "compile.command",
		}
		for flagName, viperKey := range flagBindings {
			if err := viper.BindPFlag(viperKey, cmd.Flags().Lookup(flagName)); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", flagName, err)
			}
		}

		if err := state.manager.Load(configPath); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot(cmd)
		if err != nil {
			return err
		}

		// the bare command opens the wizard the way an editor would on project load
		w := newWizard(cmd)
		p, shown, err := w.OpenOnce(wizard.Window, wizard.Defaults(root))
		if err != nil {
			return err
		}
		if !shown {
			return nil
		}

		return completeSetup(cmd, root, p)
	},
}

// Execute adds all child commands to the root command and sets flags
// this is called by main.main() – it only needs to happen once to the rootCmd
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	addRootFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(createVersionCommand())
}

// addRootFlags registers the flags every command inherits
func addRootFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to the config file (default "+defaultConfigPath+")")
	flags.StringP("project", "p", ".", "Project root containing the Assets folder")
	flags.String("company", "", "Company written as the About.xml author")
	flags.String("product-version", "", "Product version for About.xml and the starter script")
	flags.String("compile-command", "", "Command started after the assembly definition is written")
	flags.BoolP("debug", "D", false, "Enable detailed debug logging")
}

// projectRoot resolves the --project flag.
// Without the flag the working directory and its parents are searched for an Assets folder.
func projectRoot(cmd *cobra.Command) (string, error) {
	root, err := cmd.Flags().GetString("project")
	if err != nil {
		return "", fmt.Errorf("failed to get project flag: %w", err)
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}

	if cmd.Flags().Changed("project") {
		return abs, nil
	}

	found, err := scaffold.FindRoot(state.fs, abs)
	if err != nil {
		return "", err
	}
	if found == "" {
		return abs, nil
	}
	if found != abs && state.logger != nil {
		state.logger.Debug("Found project root above working directory", "root", found)
	}
	return found, nil
}

// newWizard builds a wizard writing to the command's stderr
func newWizard(cmd *cobra.Command) *wizard.Wizard {
	w := wizard.New(cmd.ErrOrStderr()).WithLogger(state.logger)
	if state.ask != nil {
		w = w.WithAsk(state.ask)
	}
	return w
}

// newScaffolder builds a scaffolder for root using the loaded configuration
func newScaffolder(root string) *scaffold.Scaffolder {
	cfg := state.manager.Config()

	h := host.NewHeadless().
		WithLogger(state.logger).
		WithCompileCommand(cfg.Compile.Command, root)

	return scaffold.New(state.fs, root, h, cfg).WithLogger(state.logger)
}

// createVersionCommand creates the version subcommand
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the current version of modsetup.",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), "modsetup version ", version, "\n")
			return nil
		},
	}
}
