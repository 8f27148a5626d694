package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "single argument", args: []string{"my cool_mod!!"}, expected: "MyCoolMod\n"},
		{name: "joined arguments", args: []string{"my", "cool", "mod"}, expected: "MyCoolMod\n"},
		{name: "leading digits", args: []string{"123abc"}, expected: "Abc\n"},
		{name: "nothing usable", args: []string{"!!!"}, expected: "Unnamed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)

			require.NoError(t, sanitizeCmd.RunE(cmd, tt.args))
			assert.Equal(t, tt.expected, stdout.String())
		})
	}
}
