package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

// LoggingConfig is the ambient logging configuration -- not part of
// spec.md's literal interface, but carried the way the teacher carries
// its own cross-cutting logging setup: a layered resolution with
// provenance tracking.
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "text"}
}

// GlobalLoggingConfigPath returns $HOME/.config/dircontxt/logging.toml.
func GlobalLoggingConfigPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return home + "/.config/dircontxt/logging.toml"
}

// ResolveLoggingConfig merges, in increasing precedence: built-in
// defaults, the ambient logging.toml (if present), and DCTX_DEBUG /
// DCTX_LOG_FORMAT environment overrides. It returns the merged config
// plus a SourceMap recording which layer won each field, mirroring the
// teacher's multi-layer koanf resolution shape at a much smaller scope.
func ResolveLoggingConfig(path string) (LoggingConfig, SourceMap, error) {
	k := koanf.New(".")
	sources := make(SourceMap)

	defaults := defaultLoggingConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"level":  defaults.Level,
		"format": defaults.Format,
	}, "."), nil); err != nil {
		return defaults, sources, err
	}
	sources["level"] = SourceDefault
	sources["format"] = SourceDefault

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var parsed struct {
				Level  string `toml:"level"`
				Format string `toml:"format"`
			}
			if _, err := toml.DecodeFile(path, &parsed); err != nil {
				return defaults, sources, err
			}

			overrides := map[string]interface{}{}
			if parsed.Level != "" {
				overrides["level"] = parsed.Level
				sources["level"] = SourceGlobal
			}
			if parsed.Format != "" {
				overrides["format"] = parsed.Format
				sources["format"] = SourceGlobal
			}
			if len(overrides) > 0 {
				if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
					return defaults, sources, err
				}
			}
		} else if !os.IsNotExist(err) {
			return defaults, sources, err
		}
	}

	if v := os.Getenv("DCTX_DEBUG"); v == "1" {
		k.Set("level", "debug")
		sources["level"] = SourceEnv
	}
	if v := os.Getenv("DCTX_LOG_FORMAT"); v != "" {
		k.Set("format", v)
		sources["format"] = SourceEnv
	}

	return LoggingConfig{
		Level:  k.String("level"),
		Format: k.String("format"),
	}, sources, nil
}
