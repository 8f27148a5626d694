package scaffold

import (
	"fmt"
	"strings"

	"github.com/chriscorrea/modsetup/internal/asmdef"
	"github.com/chriscorrea/modsetup/internal/metadata"
	"github.com/chriscorrea/modsetup/internal/naming"

	"github.com/spf13/afero"
)

// FileState tells whether one scaffold file is present
type FileState struct {
	Path   string
	Exists bool
}

// Report describes how far a project has been set up
type Report struct {
	AssetsFound bool
	// About is nil when About.xml is missing
	About *metadata.Info
	Files []FileState
}

// Complete reports whether every scaffold file exists
func (r Report) Complete() bool {
	if !r.AssetsFound {
		return false
	}
	for _, f := range r.Files {
		if !f.Exists {
			return false
		}
	}
	return true
}

// Inspect checks which scaffold files exist.
// The name in an existing About.xml wins over p.Name when deriving file names.
func (s *Scaffolder) Inspect(p Project) (Report, error) {
	var report Report

	ok, err := afero.DirExists(s.fs, s.abs(AssetsDir))
	if err != nil {
		return report, fmt.Errorf("failed to check %s folder: %w", AssetsDir, err)
	}
	report.AssetsFound = ok
	if !ok {
		return report, nil
	}

	id := p.Identifier()

	aboutPath := assetPath(s.cfg.About.Folder, metadata.FileName)
	f, err := s.fs.Open(s.abs(aboutPath))
	if err == nil {
		info, readErr := metadata.Read(f)
		f.Close()
		if readErr != nil {
			return report, readErr
		}
		report.About = &info
		id = storedIdentifier(info.Name, id)
	}

	paths := []string{
		aboutPath,
		assetPath(s.cfg.About.Folder, PreviewFile),
		assetPath(s.cfg.About.Folder, ThumbFile),
		assetPath(s.cfg.Script.Folder, id+".cs"),
		assetPath(id + asmdef.Extension),
	}

	for _, rel := range paths {
		exists, err := afero.Exists(s.fs, s.abs(rel))
		if err != nil {
			return report, fmt.Errorf("failed to check %s: %w", rel, err)
		}
		report.Files = append(report.Files, FileState{Path: rel, Exists: exists})
	}

	return report, nil
}

// storedIdentifier returns the identifier behind a name read from About.xml.
// The stored name was sanitized when written, so a valid one is kept verbatim.
func storedIdentifier(name, fallback string) string {
	switch {
	case naming.IsIdentifier(name):
		return name
	case strings.TrimSpace(name) != "":
		return naming.Sanitize(name)
	default:
		return fallback
	}
}
