package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Environment keys, relative to EnvPrefix.
const (
	envStorage     = "storage"
	envRedisURL    = "redis_url"
	envAuthURL     = "auth_url"
	envAuthTimeout = "auth_timeout"
	envOutput      = "output"
	envDebug       = "debug"
)

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyEnv overlays TASKBOARD_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	v := newEnv()
	if s := v.GetString(envStorage); s != "" {
		cfg.Storage.Backend = strings.ToLower(s)
	}
	if s := v.GetString(envRedisURL); s != "" {
		cfg.Storage.RedisURL = s
	}
	if s := v.GetString(envAuthURL); s != "" {
		cfg.Auth.BaseURL = s
	}
	if s := v.GetString(envAuthTimeout); s != "" {
		cfg.Auth.Timeout = s
	}
	if s := v.GetString(envOutput); s != "" {
		cfg.Output = strings.ToLower(s)
	}
	cfg.Debug = v.GetBool(envDebug)
}

// EnvOutput returns the TASKBOARD_OUTPUT override, for use before a config
// has been loaded.
func EnvOutput() string {
	return strings.ToLower(newEnv().GetString(envOutput))
}

// EnvDebug reports whether TASKBOARD_DEBUG is set to a true value.
func EnvDebug() bool {
	return newEnv().GetBool(envDebug)
}
