package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/chriscorrea/modsetup/internal/config"
	"github.com/chriscorrea/modsetup/internal/scaffold"

	"github.com/fatih/color"
)

// maxDescription is the longest description shown before truncation
const maxDescription = 65

// OutputConfig contains parameters for summary output formatting
type OutputConfig struct {
	Writer       io.Writer
	KeyColor     *color.Color
	ValueColor   *color.Color
	HeaderColor  *color.Color
	EnableColors bool
}

// DefaultOutputConfig returns a default configuration for summary output
func DefaultOutputConfig(writer io.Writer) *OutputConfig {
	return &OutputConfig{
		Writer:       writer,
		KeyColor:     color.New(color.FgCyan, color.Bold),
		ValueColor:   color.New(color.FgMagenta),
		HeaderColor:  color.New(color.FgYellow, color.Bold),
		EnableColors: true,
	}
}

// PrintProject displays the values setup is about to write in a two-column table.
// Company and version fall back to the configuration like the scaffolder does.
func PrintProject(p scaffold.Project, cfg *config.Config, outputCfg *OutputConfig) {
	if outputCfg == nil {
		outputCfg = DefaultOutputConfig(os.Stderr)
	}
	if cfg == nil {
		cfg = config.NewDefaultFromEmbedded()
	}

	company := p.Company
	if company == "" {
		company = cfg.Player.CompanyName
	}
	version := p.Version
	if version == "" {
		version = cfg.Player.ProductVersion
	}

	header := outputCfg.HeaderColor.SprintFunc()
	if !outputCfg.EnableColors {
		header = fmt.Sprint
	}
	fmt.Fprintf(outputCfg.Writer, "\n%s\n", header("Project"))

	w := tabwriter.NewWriter(outputCfg.Writer, 0, 0, 3, ' ', 0)

	printRow(w, outputCfg, "Name", p.Name, "Identifier", p.Identifier())
	printRow(w, outputCfg, "Namespace", p.Namespace, "Root Namespace", p.RootNamespace())
	printRow(w, outputCfg, "Company", company, "Version", version)

	if description := summarize(p.Description); description != "" {
		printRow(w, outputCfg, "Description", description, "", "")
	}

	fmt.Fprintf(w, "\n")
	w.Flush()
}

// summarize flattens text onto one line and truncates it to maxDescription runes
func summarize(text string) string {
	flat := strings.Join(strings.Fields(text), " ")

	runes := []rune(flat)
	if len(runes) > maxDescription {
		return string(runes[:maxDescription-3]) + "..."
	}
	return flat
}

// printRow prints a row holding one or two key-value pairs
func printRow(w io.Writer, outputCfg *OutputConfig, key1, value1, key2, value2 string) {
	keySprint := outputCfg.KeyColor.SprintFunc()
	valueSprint := outputCfg.ValueColor.SprintFunc()

	if !outputCfg.EnableColors {
		keySprint = fmt.Sprint
		valueSprint = fmt.Sprint
	}

	if key2 != "" {
		fmt.Fprintf(w, "%s:\t%s\t%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
			keySprint(key2),
			valueSprint(value2),
		)
	} else {
		fmt.Fprintf(w, "%s:\t%s\n",
			keySprint(key1),
			valueSprint(value1),
		)
	}
}
