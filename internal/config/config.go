// Package config loads provider credentials from a yaml file, applies
// environment-variable overrides, and resolves key files into raw material
// ready for the signing layer.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/betomoedano/quick-push/internal/signing"
	"github.com/betomoedano/quick-push/pkg/push"
)

// Config is the single, authoritative runtime configuration.
type Config struct {
	Expo push.ExpoCredential
	APNs push.APNsCredential
	FCM  push.FCMCredential

	// TokensPath is where saved recipient tokens live.
	TokensPath string

	// Key file locations, resolved into raw bytes once env overrides have
	// been applied.
	apnsKeyPath           string
	fcmServiceAccountPath string
}

// Load reads the yaml file (a missing file is fine, everything can come from
// env), applies env overrides, and resolves key files.
func Load(path string, logger *slog.Logger) (*Config, error) {
	var yamlCfg YamlConfig
	raw, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(raw, &yamlCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := NewConfigFromYaml(&yamlCfg, logger)
	return UpdateConfigWithEnvOverrides(cfg, logger)
}

// NewConfigFromYaml converts the raw yaml structure into a clean Config.
func NewConfigFromYaml(yamlCfg *YamlConfig, logger *slog.Logger) *Config {
	logger.Debug("Mapping yaml config to base config struct")
	cfg := &Config{
		Expo: push.ExpoCredential{AccessToken: yamlCfg.Expo.AccessToken},
		APNs: push.APNsCredential{
			TeamID:      yamlCfg.APNs.TeamID,
			KeyID:       yamlCfg.APNs.KeyID,
			BundleID:    yamlCfg.APNs.BundleID,
			Environment: push.Environment(yamlCfg.APNs.Environment),
		},
		FCM: push.FCMCredential{
			ProjectID:   yamlCfg.FCM.ProjectID,
			ClientEmail: yamlCfg.FCM.ClientEmail,
		},
		TokensPath: yamlCfg.TokensPath,
	}
	cfg.apnsKeyPath = yamlCfg.APNs.P8KeyPath
	cfg.fcmServiceAccountPath = yamlCfg.FCM.ServiceAccountPath
	return cfg
}

// UpdateConfigWithEnvOverrides applies environment variables, resolves key
// files, and runs final validation of whatever is configured.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("EXPO_ACCESS_TOKEN"); val != "" {
		logger.Debug("Overriding config value", "key", "EXPO_ACCESS_TOKEN", "source", "env")
		cfg.Expo.AccessToken = val
	}
	if val := os.Getenv("APNS_TEAM_ID"); val != "" {
		cfg.APNs.TeamID = val
	}
	if val := os.Getenv("APNS_KEY_ID"); val != "" {
		cfg.APNs.KeyID = val
	}
	if val := os.Getenv("APNS_BUNDLE_ID"); val != "" {
		cfg.APNs.BundleID = val
	}
	if val := os.Getenv("APNS_P8_KEY_PATH"); val != "" {
		cfg.apnsKeyPath = val
	}
	if val := os.Getenv("APNS_ENVIRONMENT"); val != "" {
		cfg.APNs.Environment = push.Environment(val)
	}
	if val := os.Getenv("FCM_SERVICE_ACCOUNT_PATH"); val != "" {
		cfg.fcmServiceAccountPath = val
	}
	if val := os.Getenv("QUICKPUSH_TOKENS_PATH"); val != "" {
		cfg.TokensPath = val
	}

	if cfg.APNs.Environment == "" {
		cfg.APNs.Environment = push.EnvironmentSandbox
	}
	if cfg.APNs.Environment != push.EnvironmentSandbox && cfg.APNs.Environment != push.EnvironmentProduction {
		return nil, fmt.Errorf("apns environment must be sandbox or production, got %q", cfg.APNs.Environment)
	}
	if cfg.TokensPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory for token store: %w", err)
		}
		cfg.TokensPath = filepath.Join(home, ".quickpush", "tokens.json")
	}

	if cfg.apnsKeyPath != "" {
		raw, err := os.ReadFile(cfg.apnsKeyPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read .p8 key file %s: %w", cfg.apnsKeyPath, err)
		}
		cfg.APNs.P8Key = raw
	}
	if cfg.fcmServiceAccountPath != "" {
		raw, err := os.ReadFile(cfg.fcmServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("cannot read service account file %s: %w", cfg.fcmServiceAccountPath, err)
		}
		cfg.FCM.ServiceAccount = raw
		// project_id and client_email come from the file unless overridden.
		sa, err := signing.ParseServiceAccount(raw)
		if err != nil {
			return nil, err
		}
		if cfg.FCM.ProjectID == "" {
			cfg.FCM.ProjectID = sa.ProjectID
		}
		if cfg.FCM.ClientEmail == "" {
			cfg.FCM.ClientEmail = sa.ClientEmail
		}
	}

	logger.Debug("Configuration finalized", "tokens_path", cfg.TokensPath)
	return cfg, nil
}
