package scaffold

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriscorrea/modsetup/internal/asmdef"
	"github.com/chriscorrea/modsetup/internal/config"
	"github.com/chriscorrea/modsetup/internal/metadata"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectRoot = "/work/Rocket Mod"

// recordingHost captures host calls
type recordingHost struct {
	imported    []string
	forced      []string
	refreshes   int
	compilation int
}

func (h *recordingHost) ImportAsset(path string, force bool) {
	h.imported = append(h.imported, path)
	if force {
		h.forced = append(h.forced, path)
	}
}

func (h *recordingHost) Refresh() { h.refreshes++ }

func (h *recordingHost) RequestCompilation() { h.compilation++ }

// newTestScaffolder creates a scaffolder over an in-memory project with an Assets folder
func newTestScaffolder(t *testing.T, withAssets bool) (*Scaffolder, afero.Fs, *recordingHost) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if withAssets {
		require.NoError(t, fs.MkdirAll(filepath.Join(projectRoot, AssetsDir), 0755))
	}

	h := &recordingHost{}
	s := New(fs, projectRoot, h, config.NewDefaultFromEmbedded())
	return s, fs, h
}

func readFile(t *testing.T, fs afero.Fs, rel string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(projectRoot, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func testProject() Project {
	return Project{
		Name:        "Rocket Mod",
		Namespace:   "Rocket_Mod",
		Description: "Adds rockets & boosters",
		Company:     "Acme Games",
		Version:     "0.3.0",
	}
}

func TestProject_Names(t *testing.T) {
	tests := []struct {
		name              string
		project           Project
		expectedID        string
		expectedNamespace string
	}{
		{name: "namespace given", project: Project{Name: "my cool_mod!!", Namespace: "Acme.Mods"}, expectedID: "MyCoolMod", expectedNamespace: "AcmeMods"},
		{name: "namespace empty", project: Project{Name: "rocket net"}, expectedID: "RocketNet", expectedNamespace: "RocketNet"},
		{name: "namespace blank", project: Project{Name: "x", Namespace: "  "}, expectedID: "X", expectedNamespace: "X"},
		{name: "nothing usable", project: Project{Name: "123"}, expectedID: "Unnamed", expectedNamespace: "Unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedID, tt.project.Identifier())
			assert.Equal(t, tt.expectedNamespace, tt.project.RootNamespace())
		})
	}
}

func TestSetup(t *testing.T) {
	s, fs, h := newTestScaffolder(t, true)

	results, err := s.Setup(testProject())
	require.NoError(t, err)

	assert.Equal(t, []Result{
		{Path: "Assets/About/About.xml", Status: StatusCreated},
		{Path: "Assets/About/Preview.png", Status: StatusCreated},
		{Path: "Assets/About/Thumb.png", Status: StatusCreated},
		{Path: "Assets/Scripts/RocketMod.cs", Status: StatusCreated},
		{Path: "Assets/RocketMod.asmdef", Status: StatusCreated},
	}, results)

	t.Run("about", func(t *testing.T) {
		about := readFile(t, fs, "Assets/About/About.xml")
		assert.Contains(t, about, "<Name>RocketMod</Name>")
		assert.Contains(t, about, "<Author>AcmeGames</Author>")
		assert.Contains(t, about, "<Version>0.3.0</Version>")
		assert.Contains(t, about, "<Description>Adds rockets &amp; boosters</Description>")
	})

	t.Run("script", func(t *testing.T) {
		script := readFile(t, fs, "Assets/Scripts/RocketMod.cs")
		assert.Contains(t, script, "namespace RocketMod\n")
		assert.Contains(t, script, "public class RocketMod : MonoBehaviour")
		assert.Contains(t, script, `new("RocketMod", "0.3.0")`)
		assert.Contains(t, script, `Debug.Log($"Loaded {prefabs.Count} prefabs");`)
	})

	t.Run("assembly", func(t *testing.T) {
		def, err := asmdef.Unmarshal([]byte(readFile(t, fs, "Assets/RocketMod.asmdef")))
		require.NoError(t, err)
		assert.Equal(t, "RocketMod", def.Name)
		assert.Equal(t, "RocketMod", def.RootNamespace)
		assert.Equal(t, []string{"Unity.TextMeshPro"}, def.References)
		assert.Contains(t, def.PrecompiledReferences, "LaunchPadBooster.dll")
	})

	t.Run("host calls", func(t *testing.T) {
		assert.Equal(t, []string{
			"Assets/About",
			"Assets/About/About.xml",
			"Assets/About/Preview.png",
			"Assets/About/Thumb.png",
			"Assets/Scripts",
			"Assets/Scripts/RocketMod.cs",
			"Assets/RocketMod.asmdef",
		}, h.imported)
		assert.Equal(t, []string{"Assets/RocketMod.asmdef"}, h.forced)
		assert.Equal(t, 1, h.refreshes)
		assert.Equal(t, 1, h.compilation)
	})
}

func TestSetup_SecondRunSkipsEverything(t *testing.T) {
	s, fs, h := newTestScaffolder(t, true)

	_, err := s.Setup(testProject())
	require.NoError(t, err)
	firstAbout := readFile(t, fs, "Assets/About/About.xml")

	changed := testProject()
	changed.Description = "different"
	results, err := s.Setup(changed)
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, StatusSkipped, r.Status, r.Path)
	}
	assert.Equal(t, firstAbout, readFile(t, fs, "Assets/About/About.xml"))
	assert.Equal(t, 1, h.compilation)
}

func TestSetup_NoAssetsFolder(t *testing.T) {
	s, _, h := newTestScaffolder(t, false)

	results, err := s.Setup(testProject())
	assert.True(t, errors.Is(err, ErrAssetsNotFound))
	assert.Empty(t, results)
	assert.Empty(t, h.imported)
	assert.Zero(t, h.compilation)

	_, err = s.CreateAssembly(testProject())
	assert.ErrorIs(t, err, ErrAssetsNotFound)
	_, err = s.CreateScript(testProject())
	assert.ErrorIs(t, err, ErrAssetsNotFound)
	_, err = s.CreateAbout(testProject())
	assert.ErrorIs(t, err, ErrAssetsNotFound)
}

func TestCreateAbout_Defaults(t *testing.T) {
	s, fs, _ := newTestScaffolder(t, true)

	_, err := s.CreateAbout(Project{Name: "Solo"})
	require.NoError(t, err)

	info, err := metadata.Read(bytes.NewReader([]byte(readFile(t, fs, "Assets/About/About.xml"))))
	require.NoError(t, err)
	assert.Equal(t, "Solo", info.Name)
	assert.Equal(t, "DefaultCompany", info.Author)
	assert.Equal(t, "1.0.0", info.Version)
}

func TestCreateAbout_Images(t *testing.T) {
	t.Run("placeholders generated", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)

		_, err := s.CreateAbout(testProject())
		require.NoError(t, err)

		preview, err := png.DecodeConfig(bytes.NewReader([]byte(readFile(t, fs, "Assets/About/Preview.png"))))
		require.NoError(t, err)
		assert.Equal(t, previewSize.X, preview.Width)
		assert.Equal(t, previewSize.Y, preview.Height)

		thumb, err := png.DecodeConfig(bytes.NewReader([]byte(readFile(t, fs, "Assets/About/Thumb.png"))))
		require.NoError(t, err)
		assert.Equal(t, thumbSize.X, thumb.Width)
	})

	t.Run("configured sources copied", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)
		require.NoError(t, afero.WriteFile(fs, "/art/preview.png", []byte("preview-bytes"), 0644))
		require.NoError(t, afero.WriteFile(fs, "/art/thumb.png", []byte("thumb-bytes"), 0644))
		s.cfg.About.Preview = "/art/preview.png"
		s.cfg.About.Thumb = "/art/thumb.png"

		_, err := s.CreateAbout(testProject())
		require.NoError(t, err)
		assert.Equal(t, "preview-bytes", readFile(t, fs, "Assets/About/Preview.png"))
		assert.Equal(t, "thumb-bytes", readFile(t, fs, "Assets/About/Thumb.png"))
	})

	t.Run("relative source read from project root", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, "art/preview.png"), []byte("preview-bytes"), 0644))
		s.cfg.About.Preview = "art/preview.png"

		_, err := s.CreateAbout(testProject())
		require.NoError(t, err)
		assert.Equal(t, "preview-bytes", readFile(t, fs, "Assets/About/Preview.png"))
	})

	t.Run("missing source fails", func(t *testing.T) {
		s, _, _ := newTestScaffolder(t, true)
		s.cfg.About.Preview = "/art/missing.png"

		results, err := s.CreateAbout(testProject())
		assert.Error(t, err)
		// About.xml was already written before the image failed
		require.Len(t, results, 1)
		assert.Equal(t, StatusCreated, results[0].Status)
	})

	t.Run("existing images kept", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, "Assets/About/Thumb.png"), []byte("mine"), 0644))

		results, err := s.CreateAbout(testProject())
		require.NoError(t, err)
		assert.Equal(t, StatusSkipped, results[2].Status)
		assert.Equal(t, "mine", readFile(t, fs, "Assets/About/Thumb.png"))
	})
}

func TestCreateScript_Exists(t *testing.T) {
	var buf bytes.Buffer
	s, fs, h := newTestScaffolder(t, true)
	s.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	existing := filepath.Join(projectRoot, "Assets/Scripts/RocketMod.cs")
	require.NoError(t, afero.WriteFile(fs, existing, []byte("// hand written"), 0644))

	res, err := s.CreateScript(testProject())
	require.NoError(t, err)
	assert.Equal(t, Result{Path: "Assets/Scripts/RocketMod.cs", Status: StatusSkipped}, res)
	assert.Equal(t, "// hand written", readFile(t, fs, "Assets/Scripts/RocketMod.cs"))
	assert.Empty(t, h.imported)
	assert.Contains(t, buf.String(), "Script exists, aborting")
}

func TestCreateScript_CustomFolderAndNamespace(t *testing.T) {
	s, fs, _ := newTestScaffolder(t, true)
	s.cfg.Script.Folder = "Code"

	res, err := s.CreateScript(Project{Name: "rocket", Namespace: "acme mods", Version: "2.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "Assets/Code/Rocket.cs", res.Path)

	script := readFile(t, fs, res.Path)
	assert.Contains(t, script, "namespace AcmeMods\n")
	assert.Contains(t, script, `new("Rocket", "2.0.0")`)
}

func TestCreateScript_VersionEscaped(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{name: "plain", version: "1.2.3", expected: `new("Rocket", "1.2.3")`},
		{name: "quote", version: `1.0 "beta"`, expected: `new("Rocket", "1.0 \"beta\"")`},
		{name: "backslash", version: `1.0\2`, expected: `new("Rocket", "1.0\\2")`},
		{name: "newline", version: "1.0\nrc", expected: `new("Rocket", "1.0\nrc")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fs, _ := newTestScaffolder(t, true)

			res, err := s.CreateScript(Project{Name: "rocket", Version: tt.version})
			require.NoError(t, err)
			assert.Contains(t, readFile(t, fs, res.Path), tt.expected)
		})
	}
}

func TestCreateAssembly_Exists(t *testing.T) {
	s, fs, h := newTestScaffolder(t, true)
	require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, "Assets/RocketMod.asmdef"), []byte("{}"), 0644))

	res, err := s.CreateAssembly(testProject())
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Zero(t, h.compilation)
	assert.Equal(t, "{}", readFile(t, fs, "Assets/RocketMod.asmdef"))
}

func TestCreateAssembly_ConfiguredReferences(t *testing.T) {
	s, fs, _ := newTestScaffolder(t, true)
	s.cfg.Assembly.References = nil
	s.cfg.Assembly.DefineConstraints = []string{"MODDING"}

	_, err := s.CreateAssembly(Project{Name: "Rocket", Namespace: "Acme"})
	require.NoError(t, err)

	raw := readFile(t, fs, "Assets/Rocket.asmdef")
	assert.Contains(t, raw, `"references": []`)

	def, err := asmdef.Unmarshal([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Acme", def.RootNamespace)
	assert.Equal(t, []string{"MODDING"}, def.DefineConstraints)
}

func TestInspect(t *testing.T) {
	t.Run("no assets", func(t *testing.T) {
		s, _, _ := newTestScaffolder(t, false)
		report, err := s.Inspect(testProject())
		require.NoError(t, err)
		assert.False(t, report.AssetsFound)
		assert.False(t, report.Complete())
	})

	t.Run("fresh project", func(t *testing.T) {
		s, _, _ := newTestScaffolder(t, true)
		report, err := s.Inspect(testProject())
		require.NoError(t, err)
		assert.True(t, report.AssetsFound)
		assert.Nil(t, report.About)
		require.Len(t, report.Files, 5)
		assert.False(t, report.Complete())
	})

	t.Run("after setup uses name from About.xml", func(t *testing.T) {
		s, _, _ := newTestScaffolder(t, true)
		_, err := s.Setup(testProject())
		require.NoError(t, err)

		report, err := s.Inspect(Project{Name: "Something Else"})
		require.NoError(t, err)
		require.NotNil(t, report.About)
		assert.Equal(t, "RocketMod", report.About.Name)
		assert.True(t, report.Complete())
		assert.Equal(t, "Assets/Scripts/RocketMod.cs", report.Files[3].Path)
	})

	t.Run("multi-word name keeps inner capitals", func(t *testing.T) {
		s, _, _ := newTestScaffolder(t, true)
		p := Project{Name: "my cool mod"}
		_, err := s.Setup(p)
		require.NoError(t, err)

		report, err := s.Inspect(p)
		require.NoError(t, err)
		require.NotNil(t, report.About)
		assert.Equal(t, "MyCoolMod", report.About.Name)
		assert.Equal(t, "Assets/Scripts/MyCoolMod.cs", report.Files[3].Path)
		assert.Equal(t, "Assets/MyCoolMod.asmdef", report.Files[4].Path)
		for _, f := range report.Files {
			assert.True(t, f.Exists, "expected %s", f.Path)
		}
		assert.True(t, report.Complete())
	})

	t.Run("hand-edited About.xml name is sanitized", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)
		about, err := metadata.Render(metadata.Info{Name: "Orbit"})
		require.NoError(t, err)
		about = strings.Replace(about, "<Name>Orbit</Name>", "<Name>orbit tools</Name>", 1)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, "Assets/About/About.xml"), []byte(about), 0644))

		report, err := s.Inspect(testProject())
		require.NoError(t, err)
		assert.Equal(t, "Assets/Scripts/OrbitTools.cs", report.Files[3].Path)
	})

	t.Run("broken About.xml", func(t *testing.T) {
		s, fs, _ := newTestScaffolder(t, true)
		require.NoError(t, afero.WriteFile(fs, filepath.Join(projectRoot, "Assets/About/About.xml"), []byte("<nope"), 0644))
		_, err := s.Inspect(testProject())
		assert.Error(t, err)
	})
}
