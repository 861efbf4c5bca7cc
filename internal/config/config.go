// Package config loads workspace settings from .blueprint/settings.yaml.
//
// The deny list mirrors a permission model: glob patterns naming files the
// loader must not read. Patterns may be bare globs ("drafts/**") or wrapped
// in a Read() verb ("Read(./drafts/**)").
//
// A .env file in the working directory is loaded first, then BLUEPRINT_*
// variables override the file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Dir is the per-workspace settings directory.
const Dir = ".blueprint"

const (
	DefaultOutput = "out"
	DefaultAddr   = ":8080"
)

// Settings holds workspace configuration.
type Settings struct {
	Permissions Permissions `yaml:"permissions"`
	// Output is the export directory, relative to the workspace root.
	Output string `yaml:"output"`
	Server Server `yaml:"server"`
}

// Permissions controls which files the workspace loader reads.
type Permissions struct {
	Deny []string `yaml:"deny"`
}

type Server struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Output: DefaultOutput,
		Server: Server{Addr: DefaultAddr, CORSOrigin: "*"},
	}
}

// Load reads <root>/.blueprint/settings.yaml over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(root string) (*Settings, error) {
	_ = godotenv.Load()

	s := Default()
	path := filepath.Join(root, Dir, "settings.yaml")
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", path, err)
		}
	}

	if v := os.Getenv("BLUEPRINT_OUTPUT"); v != "" {
		s.Output = v
	}
	if v := os.Getenv("BLUEPRINT_ADDR"); v != "" {
		s.Server.Addr = v
	}
	if v := os.Getenv("BLUEPRINT_CORS_ORIGIN"); v != "" {
		s.Server.CORSOrigin = v
	}
	if v := os.Getenv("BLUEPRINT_DENY"); v != "" {
		for _, rule := range strings.Split(v, ",") {
			if rule = strings.TrimSpace(rule); rule != "" {
				s.Permissions.Deny = append(s.Permissions.Deny, rule)
			}
		}
	}
	return s, nil
}

// Save writes s to <root>/.blueprint/settings.yaml.
func Save(root string, s *Settings) error {
	dir := filepath.Join(root, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "settings.yaml"), data, 0o644)
}

// IsDenied reports whether relPath (forward-slash, relative to the
// workspace root) matches any deny rule. Safe on a nil receiver.
func (s *Settings) IsDenied(relPath string) bool {
	if s == nil {
		return false
	}
	for _, rule := range s.Permissions.Deny {
		if matchDenyPattern(parseDenyRule(rule), relPath) {
			return true
		}
	}
	return false
}

// parseDenyRule extracts the path glob from a deny rule.
//
//	"Read(./drafts/**)" → "drafts/**"
//	"drafts/**"         → "drafts/**"
func parseDenyRule(rule string) string {
	if strings.HasPrefix(rule, "Read(") && strings.HasSuffix(rule, ")") {
		rule = rule[len("Read(") : len(rule)-1]
	}
	return strings.TrimPrefix(rule, "./")
}

// matchDenyPattern: "dir/**" covers the directory and everything beneath;
// other patterns use filepath.Match, where * stays inside one segment.
func matchDenyPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	matched, _ := filepath.Match(pattern, path)
	return matched
}
