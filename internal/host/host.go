// Package host describes what the scaffolder needs from the application that owns the project
package host

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Host is the asset store and build pipeline of the project being set up.
// All calls are fire-and-forget.
type Host interface {
	// ImportAsset tells the host a file was written; force re-imports unchanged files
	ImportAsset(path string, force bool)
	// Refresh rescans the whole asset tree
	Refresh()
	// RequestCompilation asks for the project scripts to be recompiled
	RequestCompilation()
}

// Headless is a Host for running outside an editor.
// Imports are logged, and compilation runs an optional shell command without waiting on it.
type Headless struct {
	logger         *slog.Logger
	compileCommand string
	dir            string

	// start launches a compile command; swapped in tests
	start func(cmd *exec.Cmd) error

	imported []string
}

var _ Host = (*Headless)(nil)

// NewHeadless creates a headless host
func NewHeadless() *Headless {
	return &Headless{
		start: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// WithLogger sets the logger for the host
func (h *Headless) WithLogger(logger *slog.Logger) *Headless {
	h.logger = logger
	return h
}

// WithCompileCommand sets the command run by RequestCompilation and its working directory
func (h *Headless) WithCompileCommand(command, dir string) *Headless {
	h.compileCommand = strings.TrimSpace(command)
	h.dir = dir
	return h
}

// ImportAsset records the path
func (h *Headless) ImportAsset(path string, force bool) {
	h.imported = append(h.imported, path)
	if h.logger != nil {
		h.logger.Debug("Imported asset", "path", path, "force", force)
	}
}

// Refresh has nothing to rescan without an editor
func (h *Headless) Refresh() {
	if h.logger != nil {
		h.logger.Debug("Asset refresh requested")
	}
}

// RequestCompilation starts the compile command, if one is configured
func (h *Headless) RequestCompilation() {
	if h.compileCommand == "" {
		if h.logger != nil {
			h.logger.Debug("No compile command configured, skipping compilation")
		}
		return
	}

	cmd, err := h.command()
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("Invalid compile command", "command", h.compileCommand, "error", err)
		}
		return
	}

	if err := h.start(cmd); err != nil {
		if h.logger != nil {
			h.logger.Warn("Failed to start compile command", "command", h.compileCommand, "error", err)
		}
		return
	}

	if h.logger != nil {
		h.logger.Info("Compilation requested", "command", h.compileCommand)
	}
}

// Imported returns the paths imported so far, in order
func (h *Headless) Imported() []string {
	return append([]string(nil), h.imported...)
}

func (h *Headless) command() (*exec.Cmd, error) {
	args, err := shellquote.Split(h.compileCommand)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty compile command")
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = h.dir
	return cmd, nil
}
