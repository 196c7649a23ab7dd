// Package config reads the TOML configuration from etc/main.toml.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // timezone validation must not depend on the host zoneinfo

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/GoPowerDNS-Admin/idsync/internal/rolemapping"
)

const (
	// EnvPrefix prefixes environment variables overriding single settings,
	// e.g. IDSYNC_DB_PASSWORD.
	EnvPrefix = "IDSYNC"

	// EnvConfigJSON names the environment variable holding a JSON document
	// merged over the file configuration.
	EnvConfigJSON = "IDSYNC_CONFIG_JSON"

	redacted = "********"
)

// ReadConfig reads main.toml from the directory path (default ./etc/).
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// secrets are usually absent from the file; bind them so the env still reaches them
	for _, key := range []string{"db.password", "auth.ldap.bindPassword", "auth.oidc.clientSecret"} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		v.SetConfigType("json")

		if err := v.MergeConfig(strings.NewReader(configJSON)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge config from "+EnvConfigJSON)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.gormEngine", "sqlite")
	v.SetDefault("db.path", "idsync.db")
	v.SetDefault("db.slowThreshold", 200*time.Millisecond) //nolint:mnd
	v.SetDefault("defaults.locale", "en")
	v.SetDefault("defaults.timezone", "UTC")
	v.SetDefault("image.attribute", "image")
	v.SetDefault("image.maxBytes", 5<<20) //nolint:mnd
	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "idsync")
	v.SetDefault("log.serviceName", "idsync")
}

// validate checks the settings the synchronization depends on.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Defaults.Locale == "" {
		return errors.Wrap(ErrEmptyLocale, invalidErrMessage)
	}

	if _, err := time.LoadLocation(c.Defaults.Timezone); err != nil || c.Defaults.Timezone == "" {
		return errors.Wrap(ErrInvalidTimezone, invalidErrMessage)
	}

	if c.Auth.LDAP.Enabled {
		if c.Auth.LDAP.Host == "" {
			return errors.Wrap(ErrLDAPHostEmpty, invalidErrMessage)
		}

		if c.Auth.LDAP.UserFilter == "" {
			return errors.Wrap(ErrLDAPUserFilterEmpty, invalidErrMessage)
		}
	}

	if c.Auth.OIDC.Enabled && c.Auth.OIDC.ProviderURL == "" {
		return errors.Wrap(ErrOIDCProviderEmpty, invalidErrMessage)
	}

	for authenticator, entries := range c.RoleMapping {
		if err := rolemapping.Validate(entries); err != nil {
			return errors.Wrapf(err, "%s: role mapping for %q", invalidErrMessage, authenticator)
		}
	}

	return nil
}

// DumpConfigJSON returns the config as indented JSON with secrets redacted.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	out := *c
	if out.DB.Password != "" {
		out.DB.Password = redacted
	}

	if out.Auth.LDAP.BindPassword != "" {
		out.Auth.LDAP.BindPassword = redacted
	}

	if out.Auth.OIDC.ClientSecret != "" {
		out.Auth.OIDC.ClientSecret = redacted
	}

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(out); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}
