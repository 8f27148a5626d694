package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultFromEmbedded(t *testing.T) {
	cfg := NewDefaultFromEmbedded()
	require.NotNil(t, cfg)

	t.Run("Player", func(t *testing.T) {
		assert.Equal(t, "Default Company", cfg.Player.CompanyName)
		assert.Equal(t, "1.0.0", cfg.Player.ProductVersion)
	})

	t.Run("Folders", func(t *testing.T) {
		assert.Equal(t, "About", cfg.About.Folder)
		assert.Equal(t, "Scripts", cfg.Script.Folder)
		assert.Empty(t, cfg.About.Preview)
		assert.Empty(t, cfg.About.Thumb)
	})

	t.Run("Assembly", func(t *testing.T) {
		assert.Equal(t, []string{"Unity.TextMeshPro"}, cfg.Assembly.References)
		assert.Equal(t, []string{
			"Assembly-CSharp.dll",
			"Assembly-CSharp-firstpass.dll",
			"BepInEx.dll",
			"0Harmony.dll",
			"RW.RocketNet.dll",
			"LaunchPadBooster.dll",
		}, cfg.Assembly.PrecompiledReferences)
		assert.Empty(t, cfg.Assembly.DefineConstraints)
	})

	t.Run("Compile", func(t *testing.T) {
		assert.Empty(t, cfg.Compile.Command)
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      func(t *testing.T, tempDir string) string
		expectError    bool
		validateConfig func(t *testing.T, cfg *Config, configPath string)
	}{
		{
			name: "user file merged over defaults",
			setupFile: func(t *testing.T, tempDir string) string {
				configPath := filepath.Join(tempDir, "config.toml")
				content := `[player]
company_name = "Acme Games"

[compile]
command = "dotnet build"
`
				require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
				return configPath
			},
			validateConfig: func(t *testing.T, cfg *Config, _ string) {
				assert.Equal(t, "Acme Games", cfg.Player.CompanyName)
				assert.Equal(t, "1.0.0", cfg.Player.ProductVersion)
				assert.Equal(t, "dotnet build", cfg.Compile.Command)
				assert.Equal(t, "About", cfg.About.Folder)
			},
		},
		{
			name: "missing file is created from defaults",
			setupFile: func(t *testing.T, tempDir string) string {
				return filepath.Join(tempDir, "nested", "config.toml")
			},
			validateConfig: func(t *testing.T, cfg *Config, configPath string) {
				assert.Equal(t, "Default Company", cfg.Player.CompanyName)
				data, err := os.ReadFile(configPath)
				require.NoError(t, err)
				assert.Contains(t, string(data), "company_name = \"Default Company\"")
			},
		},
		{
			name: "blank values fall back",
			setupFile: func(t *testing.T, tempDir string) string {
				configPath := filepath.Join(tempDir, "config.toml")
				content := `[player]
company_name = ""
product_version = " "

[script]
folder = ""
`
				require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
				return configPath
			},
			validateConfig: func(t *testing.T, cfg *Config, _ string) {
				assert.Equal(t, "Default Company", cfg.Player.CompanyName)
				assert.Equal(t, "1.0.0", cfg.Player.ProductVersion)
				assert.Equal(t, "Scripts", cfg.Script.Folder)
			},
		},
		{
			name: "malformed toml",
			setupFile: func(t *testing.T, tempDir string) string {
				configPath := filepath.Join(tempDir, "config.toml")
				require.NoError(t, os.WriteFile(configPath, []byte("[player\ncompany_name ="), 0644))
				return configPath
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := tt.setupFile(t, t.TempDir())

			manager := NewManager()
			err := manager.Load(configPath)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateConfig(t, manager.Config(), configPath)
		})
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("MODSETUP_PLAYER_COMPANY_NAME", "Env Corp")
	t.Setenv("MODSETUP_COMPILE_COMMAND", "msbuild Mod.sln")

	manager := NewManager()
	require.NoError(t, manager.Load(filepath.Join(t.TempDir(), "config.toml")))

	assert.Equal(t, "Env Corp", manager.Config().Player.CompanyName)
	assert.Equal(t, "msbuild Mod.sln", manager.Config().Compile.Command)
}

func TestLoad_LogsWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	manager := NewManager().WithLogger(logger)
	require.NoError(t, manager.Load(filepath.Join(t.TempDir(), "config.toml")))

	assert.Contains(t, buf.String(), "Attempting to load config file")
	assert.Contains(t, buf.String(), "Created default config file")
}

func TestSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")

	manager := NewManager()
	require.NoError(t, manager.Load(configPath))

	manager.Viper().Set("player.company_name", "Saved Studio")
	require.NoError(t, manager.Save())
	assert.Equal(t, "Saved Studio", manager.Config().Player.CompanyName)

	reloaded := NewManager()
	require.NoError(t, reloaded.Load(configPath))
	assert.Equal(t, "Saved Studio", reloaded.Config().Player.CompanyName)
}

func TestSave_NoConfigFile(t *testing.T) {
	manager := NewManager()
	assert.Error(t, manager.Save())
}

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "empty", path: "", expected: ""},
		{name: "absolute", path: "/etc/modsetup.toml", expected: "/etc/modsetup.toml"},
		{name: "relative", path: "config.toml", expected: "config.toml"},
		{name: "tilde only", path: "~", expected: home},
		{name: "tilde path", path: "~/.modsetup/config.toml", expected: filepath.Join(home, ".modsetup/config.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHomePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{name: "empty", path: "  ", baseDir: "/cfg", expected: ""},
		{name: "absolute", path: "/art/preview.png", baseDir: "/cfg", expected: "/art/preview.png"},
		{name: "relative anchored", path: "art/preview.png", baseDir: "/cfg", expected: "/cfg/art/preview.png"},
		{name: "relative without base", path: "art/preview.png", baseDir: "", expected: "art/preview.png"},
		{name: "home", path: "~/art/preview.png", baseDir: "/cfg", expected: filepath.Join(home, "art/preview.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.path, tt.baseDir)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoad_ImagePathsResolved(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	content := `[about]
preview = "art/preview.png"
thumb = "~/art/thumb.png"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	manager := NewManager()
	require.NoError(t, manager.Load(configPath))

	cfg := manager.Config()
	assert.Equal(t, filepath.Join(tempDir, "art/preview.png"), cfg.About.Preview)
	assert.Equal(t, filepath.Join(home, "art/thumb.png"), cfg.About.Thumb)

	// the file keeps what the user wrote
	assert.Equal(t, "art/preview.png", manager.Viper().GetString("about.preview"))
}
