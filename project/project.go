package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bloodmagesoftware/geoanswer/history"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/bloodmagesoftware/geoanswer/render"
	"github.com/bloodmagesoftware/geoanswer/viewport"
	"gopkg.in/yaml.v3"
)

const configFileName = "geoanswer.yaml"

// ErrNotFound is returned by FindProjectRoot when no geoanswer.yaml exists
// in the working directory or any of its parents.
var ErrNotFound = errors.New(configFileName + " not found")

// Config represents the project configuration from geoanswer.yaml.
// Sections missing from the file keep their defaults.
type Config struct {
	Name               string          `yaml:"name"`
	Canvas             viewport.Layout `yaml:"canvas"`
	SelectionThreshold float64         `yaml:"selection_threshold"`
	HistoryLimit       int             `yaml:"history_limit"`
	Palette            render.Palette  `yaml:"palette"`
	Evaluator          Evaluator       `yaml:"evaluator"`
}

// Evaluator says where answers are submitted.
type Evaluator struct {
	// URL is a ws:// or wss:// endpoint. When empty the evaluator is
	// looked up over mDNS using Service and Domain.
	URL     string        `yaml:"url,omitempty"`
	Service string        `yaml:"service"`
	Domain  string        `yaml:"domain"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default is the configuration used without a geoanswer.yaml.
func Default() *Config {
	return &Config{
		Name:               "geoanswer",
		Canvas:             viewport.DefaultLayout(),
		SelectionThreshold: hittest.DefaultThreshold,
		HistoryLimit:       history.DefaultLimit,
		Palette:            render.DefaultPalette(),
		Evaluator: Evaluator{
			Service: "_geoanswer._tcp",
			Domain:  "local",
			Timeout: 10 * time.Second,
		},
	}
}

// FindProjectRoot walks up from the current working directory looking for geoanswer.yaml.
// Returns the directory containing geoanswer.yaml, or an error wrapping ErrNotFound.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, configFileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in any parent directory of %s", ErrNotFound, cwd)
		}
		dir = parent
	}
}

// LoadConfig loads and parses the geoanswer.yaml file from the given project root.
func LoadConfig(projectRoot string) (*Config, error) {
	return LoadFile(filepath.Join(projectRoot, configFileName))
}

// LoadFile loads a configuration file by path.
func LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return config, nil
}

// Resolve loads an explicit config file, or the nearest geoanswer.yaml, or
// falls back to Default when neither exists.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	root, err := FindProjectRoot()
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	config, err := LoadConfig(root)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

func (c *Config) Validate() error {
	l := c.Canvas
	if l.ReferenceWidth <= 0 || l.ReferenceHeight <= 0 || l.BaseUnit <= 0 || l.MaxWidth <= 0 {
		return fmt.Errorf("'canvas' reference_width, reference_height, base_unit and max_width must be positive")
	}
	if l.Padding < 0 {
		return fmt.Errorf("'canvas.padding' must not be negative")
	}
	if c.SelectionThreshold <= 0 {
		return fmt.Errorf("'selection_threshold' must be positive")
	}
	if c.HistoryLimit < 2 {
		return fmt.Errorf("'history_limit' must be at least 2")
	}
	if err := c.Palette.Validate(); err != nil {
		return fmt.Errorf("'palette': %w", err)
	}
	if c.Evaluator.Timeout < 0 {
		return fmt.Errorf("'evaluator.timeout' must not be negative")
	}
	return nil
}
