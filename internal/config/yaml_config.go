package config

// YamlConfig mirrors the raw config.yaml file.
type YamlConfig struct {
	Expo       YamlExpoConfig `yaml:"expo"`
	APNs       YamlAPNsConfig `yaml:"apns"`
	FCM        YamlFCMConfig  `yaml:"fcm"`
	TokensPath string         `yaml:"tokens_path"`
}

type YamlExpoConfig struct {
	AccessToken string `yaml:"access_token"`
}

type YamlAPNsConfig struct {
	TeamID      string `yaml:"team_id"`
	KeyID       string `yaml:"key_id"`
	BundleID    string `yaml:"bundle_id"`
	P8KeyPath   string `yaml:"p8_key_path"`
	Environment string `yaml:"environment"` // sandbox | production
}

type YamlFCMConfig struct {
	ServiceAccountPath string `yaml:"service_account_path"`
	// ProjectID and ClientEmail are normally parsed out of the service
	// account file; set them here only to override.
	ProjectID   string `yaml:"project_id"`
	ClientEmail string `yaml:"client_email"`
}
