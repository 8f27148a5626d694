// Package scaffold writes the starter files of a mod project into its Assets folder.
//
// Every step only writes files that don't exist yet; existing files are
// reported as skipped and left untouched.
package scaffold

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/modsetup/internal/asmdef"
	"github.com/chriscorrea/modsetup/internal/config"
	"github.com/chriscorrea/modsetup/internal/host"
	"github.com/chriscorrea/modsetup/internal/metadata"
	"github.com/chriscorrea/modsetup/internal/naming"
	"github.com/chriscorrea/modsetup/internal/template"

	"github.com/spf13/afero"
)

// AssetsDir is the folder under the project root that holds all assets
const AssetsDir = "Assets"

// image files written next to About.xml
const (
	PreviewFile = "Preview.png"
	ThumbFile   = "Thumb.png"
)

// ErrAssetsNotFound is returned when the project has no Assets folder
var ErrAssetsNotFound = errors.New("assets folder not found")

// Status is the outcome of writing a single file
type Status string

const (
	StatusCreated Status = "created"
	StatusSkipped Status = "skipped"
)

// Result reports what happened to one file; Path is relative to the project root
type Result struct {
	Path   string
	Status Status
}

// Project holds the answers of the setup form
type Project struct {
	Name        string
	Namespace   string
	Description string
	Company     string
	Version     string
}

// Identifier is the sanitized project name used for file and class names
func (p Project) Identifier() string {
	return naming.Sanitize(p.Name)
}

// RootNamespace is the sanitized namespace, or the identifier when no namespace was given
func (p Project) RootNamespace() string {
	if strings.TrimSpace(p.Namespace) == "" {
		return p.Identifier()
	}
	return naming.Sanitize(p.Namespace)
}

// Scaffolder writes project files through an afero filesystem and notifies the host
type Scaffolder struct {
	fs     afero.Fs
	root   string
	host   host.Host
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a scaffolder for the project at projectRoot
func New(fs afero.Fs, projectRoot string, h host.Host, cfg *config.Config) *Scaffolder {
	if cfg == nil {
		cfg = config.NewDefaultFromEmbedded()
	}
	return &Scaffolder{
		fs:   fs,
		root: projectRoot,
		host: h,
		cfg:  cfg,
	}
}

// WithLogger sets the logger for the scaffolder
func (s *Scaffolder) WithLogger(logger *slog.Logger) *Scaffolder {
	s.logger = logger
	return s
}

// Root returns the project root
func (s *Scaffolder) Root() string {
	return s.root
}

// Setup runs every step: metadata, refresh, starter script, then assembly definition
func (s *Scaffolder) Setup(p Project) ([]Result, error) {
	if err := s.checkAssets(); err != nil {
		return nil, err
	}

	var results []Result

	about, err := s.CreateAbout(p)
	results = append(results, about...)
	if err != nil {
		return results, err
	}

	s.host.Refresh()

	script, err := s.CreateScript(p)
	results = append(results, script)
	if err != nil {
		return results, err
	}

	assembly, err := s.CreateAssembly(p)
	results = append(results, assembly)
	if err != nil {
		return results, err
	}

	return results, nil
}

// CreateAbout writes About.xml and the preview and thumbnail images
func (s *Scaffolder) CreateAbout(p Project) ([]Result, error) {
	if err := s.checkAssets(); err != nil {
		return nil, err
	}
	p = s.withDefaults(p)

	folder := assetPath(s.cfg.About.Folder)
	if err := s.ensureFolder(folder); err != nil {
		return nil, err
	}

	var results []Result

	aboutPath := assetPath(s.cfg.About.Folder, metadata.FileName)
	res, err := s.writeIfMissing(aboutPath, false, func() ([]byte, error) {
		out, err := metadata.Render(metadata.Info{
			Name:        p.Name,
			Author:      p.Company,
			Version:     p.Version,
			Description: p.Description,
		})
		if err != nil {
			return nil, err
		}
		s.logUnresolved(aboutPath, out)
		return []byte(out), nil
	})
	if err != nil {
		return results, err
	}
	results = append(results, res)

	images := []struct {
		file   string
		source string
		size   image.Point
	}{
		{file: PreviewFile, source: s.cfg.About.Preview, size: previewSize},
		{file: ThumbFile, source: s.cfg.About.Thumb, size: thumbSize},
	}

	for _, img := range images {
		imgPath := assetPath(s.cfg.About.Folder, img.file)
		res, err := s.writeIfMissing(imgPath, false, func() ([]byte, error) {
			return s.loadImage(img.source, img.size)
		})
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// CreateScript writes the starter MonoBehaviour named after the project
func (s *Scaffolder) CreateScript(p Project) (Result, error) {
	if err := s.checkAssets(); err != nil {
		return Result{}, err
	}
	p = s.withDefaults(p)

	scriptPath := assetPath(s.cfg.Script.Folder, p.Identifier()+".cs")
	exists, err := afero.Exists(s.fs, s.abs(scriptPath))
	if err != nil {
		return Result{}, fmt.Errorf("failed to check %s: %w", scriptPath, err)
	}
	if exists {
		if s.logger != nil {
			s.logger.Info("Script exists, aborting", "path", scriptPath)
		}
		return Result{Path: scriptPath, Status: StatusSkipped}, nil
	}

	if err := s.ensureFolder(assetPath(s.cfg.Script.Folder)); err != nil {
		return Result{}, err
	}

	return s.writeIfMissing(scriptPath, false, func() ([]byte, error) {
		tmpl, err := template.Template(template.Script)
		if err != nil {
			return nil, err
		}
		out := template.Fill(tmpl, template.Values{
			{Key: "productName", Text: p.Identifier()},
			{Key: "namespaceName", Text: p.RootNamespace()},
			{Key: "productVersion", Text: csharpString(p.Version)},
		})
		s.logUnresolved(scriptPath, out)
		return []byte(out), nil
	})
}

// CreateAssembly writes the assembly definition at the root of Assets and asks the host to recompile
func (s *Scaffolder) CreateAssembly(p Project) (Result, error) {
	p = s.withDefaults(p)

	def := asmdef.New(
		p.Identifier(),
		p.RootNamespace(),
		s.cfg.Assembly.References,
		s.cfg.Assembly.PrecompiledReferences,
		s.cfg.Assembly.DefineConstraints,
	)
	defPath := assetPath(def.FileName())

	exists, err := afero.Exists(s.fs, s.abs(defPath))
	if err != nil {
		return Result{}, fmt.Errorf("failed to check %s: %w", defPath, err)
	}
	if exists {
		if s.logger != nil {
			s.logger.Debug("Assembly definition exists, skipping", "path", defPath)
		}
		return Result{Path: defPath, Status: StatusSkipped}, nil
	}

	if err := s.checkAssets(); err != nil {
		if s.logger != nil {
			s.logger.Error("Folder not found", "folder", AssetsDir)
		}
		return Result{}, err
	}

	res, err := s.writeIfMissing(defPath, true, def.Marshal)
	if err != nil {
		return res, err
	}

	s.host.RequestCompilation()

	return res, nil
}

// withDefaults fills company and version from the configuration
func (s *Scaffolder) withDefaults(p Project) Project {
	if strings.TrimSpace(p.Company) == "" {
		p.Company = s.cfg.Player.CompanyName
	}
	if strings.TrimSpace(p.Version) == "" {
		p.Version = s.cfg.Player.ProductVersion
	}
	if strings.TrimSpace(p.Version) == "" {
		p.Version = metadata.DefaultVersion
	}
	return p
}

// writeIfMissing renders and writes rel unless it already exists, then imports it
func (s *Scaffolder) writeIfMissing(rel string, force bool, render func() ([]byte, error)) (Result, error) {
	target := s.abs(rel)

	exists, err := afero.Exists(s.fs, target)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check %s: %w", rel, err)
	}
	if exists {
		if s.logger != nil {
			s.logger.Debug("File exists, skipping", "path", rel)
		}
		return Result{Path: rel, Status: StatusSkipped}, nil
	}

	data, err := render()
	if err != nil {
		return Result{}, fmt.Errorf("failed to render %s: %w", rel, err)
	}

	if err := afero.WriteFile(s.fs, target, data, 0644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", rel, err)
	}

	if s.logger != nil {
		s.logger.Info("Created file", "path", rel, "bytes", len(data))
	}

	s.host.ImportAsset(rel, force)

	return Result{Path: rel, Status: StatusCreated}, nil
}

// ensureFolder creates a folder below Assets if it doesn't exist
func (s *Scaffolder) ensureFolder(rel string) error {
	ok, err := afero.DirExists(s.fs, s.abs(rel))
	if err != nil {
		return fmt.Errorf("failed to check folder %s: %w", rel, err)
	}
	if ok {
		return nil
	}

	if err := s.fs.MkdirAll(s.abs(rel), 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", rel, err)
	}
	if s.logger != nil {
		s.logger.Debug("Created folder", "path", rel)
	}
	s.host.ImportAsset(rel, false)
	return nil
}

func (s *Scaffolder) checkAssets() error {
	ok, err := afero.DirExists(s.fs, s.abs(AssetsDir))
	if err != nil {
		return fmt.Errorf("failed to check %s folder: %w", AssetsDir, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetsNotFound, s.abs(AssetsDir))
	}
	return nil
}

// loadImage reads a configured source image, or generates a placeholder when none is set
func (s *Scaffolder) loadImage(source string, size image.Point) ([]byte, error) {
	if strings.TrimSpace(source) == "" {
		return placeholderPNG(size)
	}

	// sources left relative by the configuration are taken from the project root
	resolved, err := config.ResolvePath(source, s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve image %s: %w", source, err)
	}

	data, err := afero.ReadFile(s.fs, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", resolved, err)
	}
	return data, nil
}

func (s *Scaffolder) logUnresolved(rel, out string) {
	if s.logger == nil {
		return
	}
	if left := template.Placeholders(out); len(left) > 0 {
		s.logger.Debug("Template placeholders left unfilled", "path", rel, "placeholders", left)
	}
}

// csharpEscaper escapes text for a regular C# string literal
var csharpEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// csharpString escapes s for use between the quotes of a C# string literal
func csharpString(s string) string {
	return csharpEscaper.Replace(s)
}

// abs maps a project-relative slash path to the filesystem
func (s *Scaffolder) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// assetPath builds a project-relative path below Assets using forward slashes
func assetPath(parts ...string) string {
	return path.Join(append([]string{AssetsDir}, parts...)...)
}
