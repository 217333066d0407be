// Package config provides configuration loading for datacurator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/n2code/datacurator/internal/fault"
)

// Environment variable overrides.
const (
	EnvPlacesDir = "DATACURATOR_PLACES_DIR"
	EnvVpcDir    = "DATACURATOR_VPC_DIR"
	EnvLabelsDir = "DATACURATOR_LABELS_DIR"
)

// Config represents the complete configuration of both pipelines.
type Config struct {
	Places PlacesConfig `yaml:"places"`
	Vpc    VpcConfig    `yaml:"vpc"`
	Labels LabelsConfig `yaml:"labels"`
}

// PlacesConfig configures the scene dataset pipeline.
type PlacesConfig struct {
	Dir          string   `yaml:"dir"`
	Dataset      string   `yaml:"dataset"`
	Archive      string   `yaml:"archive"`
	Environments []string `yaml:"environments"`
}

// VpcConfig configures the place categorization dataset pipeline.
type VpcConfig struct {
	Dir                string `yaml:"dir"`
	HomeMarker         string `yaml:"home_marker"`
	HomePrefix         string `yaml:"home_prefix"`
	LabelFile          string `yaml:"label_file"`
	DesiredEnvironment string `yaml:"desired_environment"`
}

// LabelsConfig locates the flat label-name files, one per environment type.
type LabelsConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

// DefaultConfig returns the default configuration. Dataset roots have no default.
func DefaultConfig() *Config {
	return &Config{
		Places: PlacesConfig{
			Dataset:      "Places365",
			Archive:      "places365standard_easyformat.tar",
			Environments: []string{"home", "office"},
		},
		Vpc: VpcConfig{
			HomeMarker:         "Home",
			HomePrefix:         "data_",
			LabelFile:          "label.txt",
			DesiredEnvironment: "home",
		},
		Labels: LabelsConfig{
			Dir:     ".",
			Pattern: "categories_places365_%s.txt",
		},
	}
}

var configFileCandidates = []string{
	".datacurator.yaml",
	".datacurator.yml",
}

// Load reads the configuration from the explicitly given file or, if empty, from the nearest
// configuration file found walking up from the working directory. Environment variables override file values.
func Load(explicitPath string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fault.New(fault.Config, "working directory inaccessible", err)
	}
	return load(wd, explicitPath, os.Getenv)
}

func load(startDir string, explicitPath string, getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := explicitPath
	if configPath == "" {
		configPath = findConfigFile(startDir)
	}
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fault.Newf(fault.Config, err, "failed to load config file %s", configPath)
		}
		relativeTo := filepath.Dir(configPath)
		cfg.Labels.Dir = resolveRelative(relativeTo, cfg.Labels.Dir)
		cfg.Places.Dir = resolveRelative(relativeTo, cfg.Places.Dir)
		cfg.Vpc.Dir = resolveRelative(relativeTo, cfg.Vpc.Dir)
	}

	applyEnvOverrides(cfg, getenv)
	expandEnvVars(cfg, getenv)

	return cfg, nil
}

// findConfigFile searches for the configuration file.
func findConfigFile(dir string) string {
	for {
		for _, name := range configFileCandidates {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// loadFromFile reads configuration from a YAML file, rejecting unknown keys.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolveRelative anchors relative paths from the config file at the file's directory.
// Values starting with a variable reference are left for expansion.
func resolveRelative(base string, path string) string {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "$") {
		return path
	}
	return filepath.Join(base, path)
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvPlacesDir); v != "" {
		cfg.Places.Dir = v
	}
	if v := getenv(EnvVpcDir); v != "" {
		cfg.Vpc.Dir = v
	}
	if v := getenv(EnvLabelsDir); v != "" {
		cfg.Labels.Dir = v
	}
}

var envVarPattern = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)

// expandEnvVars expands ${VAR} references in path values.
func expandEnvVars(cfg *Config, getenv func(string) string) {
	cfg.Places.Dir = expandEnvVar(cfg.Places.Dir, getenv)
	cfg.Vpc.Dir = expandEnvVar(cfg.Vpc.Dir, getenv)
	cfg.Labels.Dir = expandEnvVar(cfg.Labels.Dir, getenv)
}

func expandEnvVar(s string, getenv func(string) string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// ValidatePlaces checks that the scene dataset pipeline can run.
func (c *Config) ValidatePlaces() error {
	if strings.TrimSpace(c.Places.Dir) == "" {
		return fault.New(fault.Config, fmt.Sprintf("places root directory not configured (set places.dir or %s)", EnvPlacesDir), nil)
	}
	if len(c.Places.Environments) == 0 {
		return fault.New(fault.Config, "no places environments configured", nil)
	}
	if c.Places.Dataset == "" || c.Places.Archive == "" {
		return fault.New(fault.Config, "places dataset and archive names must not be empty", nil)
	}
	return c.validateLabels()
}

// ValidateVpc checks that the place categorization pipeline can run.
func (c *Config) ValidateVpc() error {
	if strings.TrimSpace(c.Vpc.Dir) == "" {
		return fault.New(fault.Config, fmt.Sprintf("vpc root directory not configured (set vpc.dir or %s)", EnvVpcDir), nil)
	}
	if c.Vpc.HomeMarker == "" || c.Vpc.LabelFile == "" || c.Vpc.DesiredEnvironment == "" {
		return fault.New(fault.Config, "vpc home marker, label file and desired environment must not be empty", nil)
	}
	return c.validateLabels()
}

func (c *Config) validateLabels() error {
	if strings.Count(c.Labels.Pattern, "%s") != 1 {
		return fault.New(fault.Config, fmt.Sprintf("label file pattern %q must contain exactly one %%s", c.Labels.Pattern), nil)
	}
	return nil
}

// LabelFile yields the path of the flat label-name file for the given environment type.
func (c *Config) LabelFile(environment string) string {
	return filepath.Join(c.Labels.Dir, fmt.Sprintf(c.Labels.Pattern, environment))
}
