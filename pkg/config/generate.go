package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dirstore/pkg/errors"
)

// GenerateConfigContent generates the user configuration file content:
// the built-in defaults with every value commented out, ready to be
// selectively uncommented.
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// RenderConfig renders the effective configuration as TOML
func RenderConfig(cfg *Config) (string, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfigParse, "failed to render config")
	}
	return string(data), nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [cache], [fs]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
