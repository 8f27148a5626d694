// Package wizard asks for the project name, namespace and description
package wizard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/chriscorrea/modsetup/internal/naming"
	"github.com/chriscorrea/modsetup/internal/scaffold"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
)

// Mode selects how the form is presented
type Mode int

const (
	// Window shows the form straight away
	Window Mode = iota
	// Modal asks for confirmation before showing the form
	Modal
	// NonInteractive takes the defaults without prompting
	NonInteractive
)

// ErrCancelled is returned when the user backs out of the wizard
var ErrCancelled = errors.New("setup cancelled")

// AskFunc matches survey.AskOne so prompts can be scripted in tests
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// opened is set the first time the wizard is shown and never cleared
var opened atomic.Bool

// Wizard runs the setup form
type Wizard struct {
	ask    AskFunc
	out    io.Writer
	logger *slog.Logger
}

// New creates a wizard printing its messages to out
func New(out io.Writer) *Wizard {
	return &Wizard{
		ask: survey.AskOne,
		out: out,
	}
}

// WithAsk replaces the prompt function
func (w *Wizard) WithAsk(ask AskFunc) *Wizard {
	w.ask = ask
	return w
}

// WithLogger sets the logger for the wizard
func (w *Wizard) WithLogger(logger *slog.Logger) *Wizard {
	w.logger = logger
	return w
}

// Defaults suggests form values for the project at projectRoot:
// the folder name as project name and a namespace derived from it
func Defaults(projectRoot string) scaffold.Project {
	name := filepath.Base(filepath.Clean(projectRoot))
	if abs, err := filepath.Abs(projectRoot); err == nil {
		name = filepath.Base(abs)
	}
	return scaffold.Project{
		Name:      name,
		Namespace: naming.DefaultNamespace(name),
	}
}

// OpenOnce runs the wizard only if it hasn't been shown in this process yet.
// The bool result is false when it had already been shown.
func (w *Wizard) OpenOnce(mode Mode, defaults scaffold.Project) (scaffold.Project, bool, error) {
	if !opened.CompareAndSwap(false, true) {
		if w.logger != nil {
			w.logger.Debug("Wizard already shown, skipping")
		}
		return scaffold.Project{}, false, nil
	}
	p, err := w.run(mode, defaults)
	return p, true, err
}

// Run shows the wizard and returns the answers
func (w *Wizard) Run(mode Mode, defaults scaffold.Project) (scaffold.Project, error) {
	opened.Store(true)
	return w.run(mode, defaults)
}

func (w *Wizard) run(mode Mode, defaults scaffold.Project) (scaffold.Project, error) {
	if defaults.Namespace == "" {
		defaults.Namespace = naming.DefaultNamespace(defaults.Name)
	}

	if mode == NonInteractive {
		if w.logger != nil {
			w.logger.Debug("Running wizard non-interactively", "name", defaults.Name, "namespace", defaults.Namespace)
		}
		return defaults, nil
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	if mode == Modal {
		var proceed bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s We need to complete setup now.", cyan("🛠")),
			Default: true,
		}
		if err := w.askOne(prompt, &proceed); err != nil {
			return scaffold.Project{}, err
		}
		if !proceed {
			return scaffold.Project{}, ErrCancelled
		}
	}

	fmt.Fprintf(w.out, "\n%s\n\n", cyan("Project Setup"))

	answers := defaults

	namePrompt := &survey.Input{
		Message: "Name",
		Default: defaults.Name,
		Help:    "Used for the product name, the script class and the assembly",
	}
	if err := w.askOne(namePrompt, &answers.Name); err != nil {
		return scaffold.Project{}, err
	}

	// follow a renamed project unless the namespace was given explicitly
	namespaceDefault := defaults.Namespace
	if answers.Name != defaults.Name && defaults.Namespace == naming.DefaultNamespace(defaults.Name) {
		namespaceDefault = naming.DefaultNamespace(answers.Name)
	}

	namespacePrompt := &survey.Input{
		Message: "Namespace",
		Default: namespaceDefault,
		Help:    "Root namespace of the starter script and assembly definition",
	}
	if err := w.askOne(namespacePrompt, &answers.Namespace); err != nil {
		return scaffold.Project{}, err
	}

	descriptionPrompt := &survey.Multiline{
		Message: "Description",
		Default: defaults.Description,
		Help:    "Written to About.xml",
	}
	if err := w.askOne(descriptionPrompt, &answers.Description); err != nil {
		return scaffold.Project{}, err
	}
	answers.Description = strings.TrimRight(answers.Description, "\r\n")

	var complete bool
	completePrompt := &survey.Confirm{
		Message: fmt.Sprintf("%s Complete Setup?", green("✅")),
		Default: true,
	}
	if err := w.askOne(completePrompt, &complete); err != nil {
		return scaffold.Project{}, err
	}
	if !complete {
		return scaffold.Project{}, ErrCancelled
	}

	if w.logger != nil {
		w.logger.Debug("Wizard completed", "name", answers.Name, "namespace", answers.Namespace)
	}

	return answers, nil
}

// askOne wraps survey errors; Ctrl-C becomes ErrCancelled
func (w *Wizard) askOne(p survey.Prompt, response interface{}) error {
	err := w.ask(p, response)
	if err == nil {
		return nil
	}
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCancelled
	}
	return fmt.Errorf("survey error: %w", err)
}
