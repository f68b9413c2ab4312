package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "RECIPES_LAB_CONFIG"
	catalogAPIKeyEnv    = "SPOONACULAR_API_KEY"
	catalogBaseURLEnv   = "CATALOG_BASE_URL"
	databasePathEnv     = "DATABASE_PATH"
	sessionSecretEnv    = "SESSION_SECRET"
	sessionTokenPathEnv = "SESSION_TOKEN_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
}

// CatalogConfig describes the external recipe catalog service.
type CatalogConfig struct {
	BaseURL        string `yaml:"baseUrl"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// DatabaseConfig describes the per-user persistence store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig wires the ID-token based auth provider.
type SessionConfig struct {
	Secret    string `yaml:"secret"`
	TokenPath string `yaml:"tokenPath"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// RequireCatalogKey validates that a live catalog can be reached. The seed
// pool works without a key, so this is only checked when a real search is
// requested.
func (c Config) RequireCatalogKey() error {
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("%s environment variable not set", catalogAPIKeyEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(catalogAPIKeyEnv); v != "" {
		c.Catalog.APIKey = v
	}
	if v := os.Getenv(catalogBaseURLEnv); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(sessionSecretEnv); v != "" {
		c.Session.Secret = v
	}
	if v := os.Getenv(sessionTokenPathEnv); v != "" {
		c.Session.TokenPath = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Catalog.BaseURL != "" {
		base.Catalog.BaseURL = override.Catalog.BaseURL
	}
	if override.Catalog.APIKey != "" {
		base.Catalog.APIKey = override.Catalog.APIKey
	}
	if override.Catalog.TimeoutSeconds > 0 {
		base.Catalog.TimeoutSeconds = override.Catalog.TimeoutSeconds
	}
	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}
	if override.Session.Secret != "" {
		base.Session.Secret = override.Session.Secret
	}
	if override.Session.TokenPath != "" {
		base.Session.TokenPath = override.Session.TokenPath
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			BaseURL:        "https://api.spoonacular.com",
			TimeoutSeconds: 10,
		},
		Database: DatabaseConfig{Path: "data/recipes-lab.db"},
		Session:  SessionConfig{TokenPath: "data/session.jwt"},
	}
}
