// Package config binds file-based configuration for catalog tooling.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// CatalogConfig locates the catalog and its bucket span.
type CatalogConfig struct {
	// Base is the bucket prefix the catalog spans (scheme://bucket/prefix)
	Base string `yaml:"base"`

	// StorePath is the local path of the persisted catalog file
	StorePath string `yaml:"store_path"`
}

// StorageConfig configures the S3 collaborator.
type StorageConfig struct {
	Endpoint  string   `yaml:"endpoint"`
	AccessKey string   `yaml:"access_key"`
	SecretKey string   `yaml:"secret_key"`
	UseSSL    bool     `yaml:"use_ssl"`
	Scheme    string   `yaml:"scheme"`
	Timeout   Duration `yaml:"timeout"`
}

// Duration accepts Go duration strings like "30s" in yaml documents.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// LogConfig configures the shared logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	JSON  bool   `yaml:"json"`
}

// Load reads and validates a yaml configuration file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}

	return config, nil
}

// Validate checks required fields and defaults the rest.
func (c *Config) Validate() error {
	if c.Catalog.Base == "" {
		return fmt.Errorf("catalog.base is required")
	}

	if c.Catalog.StorePath == "" {
		return fmt.Errorf("catalog.store_path is required")
	}

	if c.Storage.Scheme == "" {
		c.Storage.Scheme = "s3"
	}

	if c.Storage.Timeout == 0 {
		c.Storage.Timeout = Duration(30 * time.Second)
	}

	if c.Log.Level == "" {
		c.Log.Level = "INFO"
	}

	return nil
}
