// Package config loads application settings from a config file and
// INBOXSIFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds everything the assistant needs to run: the owning
// mailbox, HTTP listen addresses, Google OAuth application credentials,
// and the local database location.
type Settings struct {
	AppName    string `mapstructure:"app_name"`
	OwnerEmail string `mapstructure:"owner_email"`

	Server struct {
		Addr        string `mapstructure:"addr"`
		MetricsAddr string `mapstructure:"metrics_addr"`
	} `mapstructure:"server"`

	Google struct {
		ClientID     string   `mapstructure:"client_id"`
		ClientSecret string   `mapstructure:"client_secret"`
		RedirectURL  string   `mapstructure:"redirect_url"`
		Scopes       []string `mapstructure:"scopes"`
	} `mapstructure:"google"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// Load reads settings from an optional config file plus the environment.
// An empty path searches the usual locations; a missing file is fine, the
// defaults and environment cover everything.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("inboxsift")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/inboxsift/")
		v.AddConfigPath("$HOME/.config/inboxsift")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("INBOXSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "inboxsift")
	v.SetDefault("owner_email", "owner@example.com")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9090")

	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "http://localhost:8080/oauth/callback")
	v.SetDefault("google.scopes", []string{})

	v.SetDefault("database.path", "inboxsift.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
