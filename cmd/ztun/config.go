package main

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// serveConfig is the set of knobs the serve subcommand accepts, loaded
// from an optional YAML file and overridable by ZTUN_*-prefixed
// environment variables (e.g. ZTUN_REALM overrides "realm").
type serveConfig struct {
	Listen     string       `koanf:"listen"`
	Metrics    string       `koanf:"metrics"`
	Auth       string       `koanf:"auth"` // "none", "short_term", "long_term"
	Realm      string       `koanf:"realm"`
	Algorithms []string     `koanf:"algorithms"`
	Users      []userConfig `koanf:"users"`
}

// userConfig is one registered-user entry under the "users" config key.
// Realm is only meaningful for long-term credentials; it is ignored
// under "auth: short_term".
type userConfig struct {
	Username string `koanf:"username"`
	Realm    string `koanf:"realm"`
	Password string `koanf:"password"`
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Listen:     "0.0.0.0:3478",
		Metrics:    "127.0.0.1:9478",
		Auth:       "none",
		Realm:      "default",
		Algorithms: []string{"MD5", "SHA256"},
	}
}

func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "loading config file %q", path)
		}
	}

	envProvider := env.Provider("ZTUN_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ZTUN_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return cfg, errors.Wrap(err, "loading ZTUN_* environment overrides")
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding configuration")
	}

	return cfg, nil
}
