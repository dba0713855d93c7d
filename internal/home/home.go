package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the casebook home directory.
	DefaultDirName = ".casebook"

	// OutputsDirName is the subdirectory used when no output_dir is configured.
	OutputsDirName = "outputs"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// TableOfCasesFileName holds the contents discovery result.
	TableOfCasesFileName = "table_of_cases.json"

	// CasesFileName holds the case extraction result.
	CasesFileName = "cases.json"
)

// Dir represents the casebook home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.casebook).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// OutputsPath returns the default output directory.
func (d *Dir) OutputsPath() string {
	return filepath.Join(d.path, OutputsDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// Outputs locates the files a run writes.
type Outputs struct {
	dir string
}

// NewOutputs returns the output layout rooted at dir.
func NewOutputs(dir string) Outputs {
	return Outputs{dir: dir}
}

// Dir returns the output directory.
func (o Outputs) Dir() string {
	return o.dir
}

// TableOfCasesPath returns the path of table_of_cases.json.
func (o Outputs) TableOfCasesPath() string {
	return filepath.Join(o.dir, TableOfCasesFileName)
}

// CasesPath returns the path of cases.json.
func (o Outputs) CasesPath() string {
	return filepath.Join(o.dir, CasesFileName)
}

// EnsureExists creates the output directory.
func (o Outputs) EnsureExists() error {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
