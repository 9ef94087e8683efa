package config

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
)

// GlobalConfigPath returns $HOME/.config/dircontxt/config.
func GlobalConfigPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		return ""
	}
	return home + "/.config/dircontxt/config"
}

// LoadConfig reads the global config file at path using spec.md §6's
// literal grammar: line-oriented KEY=VALUE, skipping blank lines and
// comments (first non-space character '#'). A missing file is not an
// error. Unknown keys are logged and ignored rather than rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	logger := slog.Default().With("component", "config")

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			logger.Warn("malformed config line, ignoring", "line", line)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "OUTPUT_MODE":
			mode, ok := parseOutputMode(value)
			if !ok {
				logger.Warn("unrecognized OUTPUT_MODE value, ignoring", "value", value)
				continue
			}
			cfg.OutputMode = mode
		default:
			logger.Warn("unknown config key, ignoring", "key", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func parseOutputMode(value string) (OutputMode, bool) {
	switch value {
	case "both":
		return OutputBoth, true
	case "text", "text_only":
		return OutputTextOnly, true
	case "binary", "binary_only":
		return OutputBinaryOnly, true
	default:
		return "", false
	}
}
