package cmd

import (
	"errors"

	"github.com/chriscorrea/modsetup/internal/scaffold"
	"github.com/chriscorrea/modsetup/internal/wizard"
)

// exit codes reported by Execute
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitNoAssets  = 2
	ExitCancelled = 3
)

// exitCode maps a command error to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, wizard.ErrCancelled):
		return ExitCancelled
	case errors.Is(err, scaffold.ErrAssetsNotFound):
		return ExitNoAssets
	default:
		return ExitFailure
	}
}
