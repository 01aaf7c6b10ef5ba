// Package annohint holds the project-level configuration shared by the
// annohint language server and CLI.
package annohint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no config file exists in a directory or any of its parents.
var ErrConfigNotFound = errors.New("annohint: config file not found")

// DefaultMaxFileSize is the largest .java file indexed when the config does not say otherwise.
const DefaultMaxFileSize = 1 << 20

// Config represents the .annohint.yaml configuration file.
type Config struct {
	// Directories, relative to the config file, scanned for annotation declarations.
	SourceRoots []string `yaml:"source_roots,omitempty"`

	// Path segment patterns (filepath.Match syntax) skipped while indexing.
	// e.g., "build", "target", ".*"
	Exclude []string `yaml:"exclude,omitempty"`

	// Builtins enables the java.lang and java.lang.annotation declarations.
	Builtins *bool `yaml:"builtins,omitempty"`

	// Files larger than this are not indexed.
	MaxFileSize int64 `yaml:"max_file_size,omitempty"`

	// Log level for the language server (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`

	// dir is the directory the config was loaded from.
	dir string
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".annohint.yaml", ".annohint.yml", "annohint.yaml", "annohint.yml"}

// DefaultConfig returns the configuration used when no config file is found.
func DefaultConfig(dir string) *Config {
	cfg := &Config{dir: dir}
	cfg.applyDefaults()

	return cfg
}

// LoadConfig finds and loads the nearest .annohint.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.SourceRoots) == 0 {
		c.SourceRoots = []string{"."}
	}

	if c.Exclude == nil {
		c.Exclude = []string{".*", "build", "target", "out", "node_modules"}
	}

	if c.Builtins == nil {
		enabled := true
		c.Builtins = &enabled
	}

	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Dir returns the directory the config applies to.
func (c *Config) Dir() string {
	return c.dir
}

// BuiltinsEnabled reports whether the java.lang declarations should be indexed.
func (c *Config) BuiltinsEnabled() bool {
	return c.Builtins == nil || *c.Builtins
}

// Roots returns the absolute source roots.
func (c *Config) Roots() []string {
	roots := make([]string, 0, len(c.SourceRoots))

	for _, root := range c.SourceRoots {
		if filepath.IsAbs(root) {
			roots = append(roots, filepath.Clean(root))
		} else {
			roots = append(roots, filepath.Join(c.dir, root))
		}
	}

	return roots
}

// Excluded reports whether a path relative to a source root should be skipped.
// Patterns are matched against each path segment and against the whole path.
func (c *Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}

	for _, pattern := range c.Exclude {
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}

		for _, segment := range strings.Split(rel, "/") {
			if matched, _ := filepath.Match(pattern, segment); matched {
				return true
			}
		}
	}

	return false
}
