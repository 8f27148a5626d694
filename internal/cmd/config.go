package cmd

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/modsetup/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage modsetup configuration",
	Long: `Manage modsetup configuration settings. Without a subcommand the
effective configuration and the file it was loaded from are printed.

Examples:
  modsetup config                          # Show the effective configuration
  modsetup config set company="Rocket Co"  # Set a configuration value
  modsetup config describe references      # Explain one key
  modsetup config keys                     # List keys and aliases`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if file := state.manager.Viper().ConfigFileUsed(); file != "" {
			fmt.Fprintf(out, "Config file: %s\n\n", file)
		}

		return printConfig(out, config.DefaultConfigSchema())
	},
}

// setCmd represents the config set command
var setCmd = &cobra.Command{
	Use:   "set <key>=<value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

The key should be in dot notation format (e.g., player.company_name),
but short aliases are also supported. List values are comma separated.

Examples:
  modsetup config set player.company_name="Rocket Co"
  modsetup config set version=0.2.0
  modsetup config set references=Unity.TextMeshPro,Unity.InputSystem
  modsetup config set compile="make build"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		argument := args[0]
		parts := strings.SplitN(argument, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format: expected key=value, got %q", argument)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if key == "" {
			return fmt.Errorf("key cannot be empty")
		}

		schema := config.DefaultConfigSchema()

		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		convertedValue, err := convertValueToType(value, fieldInfo.Type)
		if err != nil {
			return fmt.Errorf("failed to convert value %q for key %q: %w", value, canonicalKey, err)
		}

		if err := schema.ValidateValue(canonicalKey, convertedValue); err != nil {
			return fmt.Errorf("validation failed for key %q: %w", canonicalKey, err)
		}

		state.manager.Viper().Set(canonicalKey, convertedValue)

		if err := state.manager.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		if key != canonicalKey {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s (%s) = %v\n", key, canonicalKey, convertedValue)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration updated: %s = %v\n", canonicalKey, convertedValue)
		}

		return nil
	},
}

// describeConfigCmd represents the config describe command
var describeConfigCmd = &cobra.Command{
	Use:   "describe <key>",
	Short: "Show detailed information about a configuration key",
	Long: `Show detailed information about a configuration key including its type,
description, default and current value.

The key can be either a full canonical path or an alias.

Examples:
  modsetup config describe company
  modsetup config describe assembly.precompiled_references`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		schema := config.DefaultConfigSchema()

		canonicalKey, err := schema.ResolveKey(key)
		if err != nil {
			return err
		}

		fieldInfo, err := schema.GetFieldInfo(canonicalKey)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration Key: %s\n", canonicalKey)
		if key != canonicalKey {
			fmt.Fprintf(out, "Alias: %s\n", key)
		}
		fmt.Fprintf(out, "Type: %s\n", fieldInfo.Type.String())
		fmt.Fprintf(out, "Description: %s\n", fieldInfo.Description)
		fmt.Fprintf(out, "Default: %s\n", formatValue(fieldInfo.Default))
		fmt.Fprintf(out, "Current Value: %s\n", formatValue(getConfigValue(canonicalKey)))

		if fieldInfo.Validation != nil {
			fmt.Fprintf(out, "\nValidation: Custom validation rules apply\n")
		}

		var relatedAliases []string
		for alias, canonical := range schema.Aliases {
			if canonical == canonicalKey && alias != key {
				relatedAliases = append(relatedAliases, alias)
			}
		}
		if len(relatedAliases) > 0 {
			sort.Strings(relatedAliases)
			fmt.Fprintf(out, "\nAliases: %s\n", strings.Join(relatedAliases, ", "))
		}

		return nil
	},
}

// keysCmd lists every key with its aliases
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys and aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := config.DefaultConfigSchema()

		aliasesByKey := make(map[string][]string)
		for alias, canonical := range schema.Aliases {
			aliasesByKey[canonical] = append(aliasesByKey[canonical], alias)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tALIASES\tDESCRIPTION")
		for _, key := range schema.ListCanonicalKeys() {
			aliases := aliasesByKey[key]
			sort.Strings(aliases)
			fmt.Fprintf(w, "%s\t%s\t%s\n", key, strings.Join(aliases, ", "), schema.ValidPaths[key].Description)
		}
		return w.Flush()
	},
}

func init() {
	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(describeConfigCmd)
	configCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(configCmd)
}

// printConfig writes every key grouped by section with its effective value
func printConfig(out io.Writer, schema *config.ConfigSchema) error {
	section := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	current := ""
	for _, key := range schema.ListCanonicalKeys() {
		group, name, _ := strings.Cut(key, ".")
		if group != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", section("["+group+"]"))
			current = group
		}

		value := formatValue(getConfigValue(key))
		if value == "" || value == "[]" {
			value = dim("(none)")
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, value)
	}

	return w.Flush()
}

// getConfigValue reads the effective value for a canonical key
func getConfigValue(key string) interface{} {
	if state.manager == nil {
		return nil
	}
	return state.manager.Viper().Get(key)
}

// formatValue renders strings plainly and lists as [a, b]
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case []interface{}:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprint(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}

// convertValueToType converts a string value to the specified type
func convertValueToType(value string, targetType reflect.Type) (interface{}, error) {
	// try to unquote the value if it appears to be quoted
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'' || value[0] == '`') {
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
	}

	switch targetType.Kind() {
	case reflect.String:
		return value, nil

	case reflect.Bool:
		return strconv.ParseBool(strings.ToLower(value))

	case reflect.Int:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, err
		}
		return int(intVal), nil

	case reflect.Slice:
		if targetType.Elem().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported type: %s", targetType.String())
		}
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil

	default:
		return nil, fmt.Errorf("unsupported type: %s", targetType.String())
	}
}
