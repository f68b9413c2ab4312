package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("RECIPES_LAB_CONFIG")
	os.Unsetenv("SPOONACULAR_API_KEY")
	os.Unsetenv("CATALOG_BASE_URL")
	os.Unsetenv("DATABASE_PATH")

	cfg := Load()
	if cfg.Catalog.BaseURL != "https://api.spoonacular.com" {
		t.Errorf("Expected default catalog base URL, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.TimeoutSeconds != 10 {
		t.Errorf("Expected default timeout 10, got %d", cfg.Catalog.TimeoutSeconds)
	}
	if cfg.Database.Path != "data/recipes-lab.db" {
		t.Errorf("Expected default database path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("catalog:\n  baseUrl: http://file.test\n  apiKey: file-key\n  timeoutSeconds: 3\ndatabase:\n  path: /tmp/file.db\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("RECIPES_LAB_CONFIG", path)
	t.Setenv("SPOONACULAR_API_KEY", "env-key")

	cfg := Load()
	if cfg.Catalog.BaseURL != "http://file.test" {
		t.Errorf("Expected file base URL, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.TimeoutSeconds != 3 {
		t.Errorf("Expected file timeout 3, got %d", cfg.Catalog.TimeoutSeconds)
	}
	// Env wins over the file.
	if cfg.Catalog.APIKey != "env-key" {
		t.Errorf("Expected env override for API key, got %q", cfg.Catalog.APIKey)
	}
	if cfg.Database.Path != "/tmp/file.db" {
		t.Errorf("Expected file database path, got %q", cfg.Database.Path)
	}
}

func TestRequireCatalogKey(t *testing.T) {
	cfg := Config{}
	if err := cfg.RequireCatalogKey(); err == nil {
		t.Fatal("Expected an error for missing SPOONACULAR_API_KEY, got nil")
	}
	cfg.Catalog.APIKey = "k"
	if err := cfg.RequireCatalogKey(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
