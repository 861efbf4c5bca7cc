// Package workspace manages a directory of design documents.
//
// Directory layout:
//
//	<dir>/
//	    blueprint.yaml            # manifest: project name and description
//	    .blueprint/settings.yaml  # deny rules, output dir, server settings
//	    *.yaml, *.yml             # design documents (multi-document streams allowed)
//	    *.md                      # design documents carried in front matter
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"blueprint/internal/config"
	"blueprint/internal/frontmatter"
)

// ManifestFile is the name of the workspace manifest.
const ManifestFile = "blueprint.yaml"

// Manifest describes the project a workspace holds.
type Manifest struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Workspace is an opened workspace directory.
type Workspace struct {
	Dir      string
	Manifest Manifest
	Settings *config.Settings
}

// Init creates a workspace in dir with a manifest and default settings.
// It errors if dir already holds a manifest.
func Init(dir, name, description string) error {
	path := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("workspace already initialised at %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	data, err := yaml.Marshal(Manifest{Name: name, Description: description})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return config.Save(dir, config.Default())
}

// Open reads the manifest and settings of an existing workspace.
func Open(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("no workspace at %s (run 'blueprint init %s' first)", dir, dir)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	s, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Workspace{Dir: dir, Manifest: m, Settings: s}, nil
}

// ListDocuments returns the forward-slash paths, relative to the workspace
// root, of every design document, sorted. Hidden directories, the export
// directory, denied paths and markdown files without front matter are
// skipped.
func (w *Workspace) ListDocuments() ([]string, error) {
	output := filepath.Clean(filepath.Join(w.Dir, w.Settings.Output))
	var docs []string
	err := filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(w.Dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != w.Dir && (strings.HasPrefix(d.Name(), ".") || path == output || w.Settings.IsDenied(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if rel == ManifestFile || w.Settings.IsDenied(rel) {
			return nil
		}
		switch strings.ToLower(filepath.Ext(rel)) {
		case ".yaml", ".yml":
			docs = append(docs, rel)
		case ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if frontmatter.Has(data) {
				docs = append(docs, rel)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	slices.Sort(docs)
	return docs, nil
}

// AddDocument writes a skeleton document of the given kind to
// <Slug(name)>.yaml and returns its relative path. It errors if the file
// exists.
func (w *Workspace) AddDocument(kind Kind, id int, name string) (string, error) {
	rel := Slug(name) + ".yaml"
	path := filepath.Join(w.Dir, rel)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("document %q already exists", rel)
	}
	data, err := Skeleton(kind, id, name, w.Manifest.Name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// RemoveDocument deletes a document by its relative path.
func (w *Workspace) RemoveDocument(rel string) error {
	docs, err := w.ListDocuments()
	if err != nil {
		return err
	}
	if !slices.Contains(docs, filepath.ToSlash(rel)) {
		return fmt.Errorf("document %q not found in workspace", rel)
	}
	if err := os.Remove(filepath.Join(w.Dir, filepath.FromSlash(rel))); err != nil {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}

// Decode reads and decodes every listed document.
func (w *Workspace) Decode() ([]Document, error) {
	rels, err := w.ListDocuments()
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(w.Dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		ds, err := Decode(rel, data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, ds...)
	}
	return docs, nil
}

// Load decodes and assembles the whole workspace.
func (w *Workspace) Load() (*Project, error) {
	docs, err := w.Decode()
	if err != nil {
		return nil, err
	}
	return Assemble(w.Manifest.Name, docs)
}

// OutputDir is the absolute-or-workspace-relative export directory.
func (w *Workspace) OutputDir() string {
	if filepath.IsAbs(w.Settings.Output) {
		return w.Settings.Output
	}
	return filepath.Join(w.Dir, w.Settings.Output)
}

// Slug lowercases name and folds every run of non-alphanumerics to "-".
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "document"
	}
	return s
}
