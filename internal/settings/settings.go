// Package settings loads API client configuration from a settings
// file, the environment, or both.
package settings

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds the tenant and credential configuration used to
// construct an API client.
type Settings struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
	BaseURL      string `mapstructure:"base_url"`
}

// Load reads settings from the given file, with ITM_-prefixed
// environment variables overriding file values. A .env file in the
// working directory is loaded first when present. Path may be empty
// to configure from the environment alone.
func Load(path string) (*Settings, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Register every key so AutomaticEnv can resolve it without a
	// settings file.
	v.SetDefault("tenant_id", "")
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("scope", "*")
	v.SetDefault("base_url", "")

	v.SetEnvPrefix("ITM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	if s.ClientID == "" || s.ClientSecret == "" {
		return nil, fmt.Errorf("settings missing client_id or client_secret")
	}
	if s.TenantID == "" && s.BaseURL == "" {
		return nil, fmt.Errorf("settings missing tenant_id or base_url")
	}

	return &s, nil
}
