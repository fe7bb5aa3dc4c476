package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwantia/catalog/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Fixture write failed: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base: s3://bucket/projects
  store_path: /var/lib/catalog/index.dcat
storage:
  endpoint: minio.local:9000
  access_key: key
  secret_key: secret
  timeout: 10s
log:
  level: debug
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.Base != "s3://bucket/projects" {
		t.Fatalf("Base mismatch: %s", cfg.Catalog.Base)
	}
	if cfg.Storage.Timeout.Std() != 10*time.Second {
		t.Fatalf("Timeout mismatch: %s", cfg.Storage.Timeout.Std())
	}
	if cfg.Storage.Scheme != "s3" {
		t.Fatalf("Scheme default missing: %s", cfg.Storage.Scheme)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	path := writeConfig(t, `
storage:
  endpoint: minio.local:9000
`)

	if _, err := config.Load(path); err == nil {
		t.Fatal("Expected validation error for missing catalog section")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base: s3://bucket/projects
  store_path: index.dcat
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage.Timeout.Std() != 30*time.Second || cfg.Log.Level != "INFO" {
		t.Fatalf("Defaults not applied: %+v", cfg)
	}
}
