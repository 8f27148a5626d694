package scaffold

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work/Rocket Mod/Assets/Scripts/Nested", 0755))
	require.NoError(t, fs.MkdirAll("/work/Empty/sub", 0755))

	tests := []struct {
		name     string
		start    string
		expected string
	}{
		{name: "project root", start: "/work/Rocket Mod", expected: "/work/Rocket Mod"},
		{name: "inside assets", start: "/work/Rocket Mod/Assets", expected: "/work/Rocket Mod"},
		{name: "deep inside assets", start: "/work/Rocket Mod/Assets/Scripts/Nested", expected: "/work/Rocket Mod"},
		{name: "no project", start: "/work/Empty/sub", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := FindRoot(fs, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, root)
		})
	}
}
