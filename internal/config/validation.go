package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conneroisu/vegadoc/internal/errors"
)

// validateConfig checks the loaded configuration before a build starts.
func validateConfig(config *Config) error {
	if err := validatePath("site.source", config.Site.Source); err != nil {
		return err
	}
	if err := validatePath("site.output", config.Site.Output); err != nil {
		return err
	}

	switch config.Build.Format {
	case "html", "text":
	default:
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			fmt.Sprintf("build.format must be html or text, got %q", config.Build.Format),
		)
	}

	for key, url := range map[string]string{
		"scripts.vega_url":      config.Scripts.VegaURL,
		"scripts.vegalite_url":  config.Scripts.VegaLiteURL,
		"scripts.vegaembed_url": config.Scripts.VegaEmbedURL,
	} {
		if strings.TrimSpace(url) == "" {
			return errors.NewConfigError(
				errors.ErrCodeConfigInvalid,
				key+" must not be empty",
			)
		}
	}

	return nil
}

// validatePath rejects empty values and directory traversal in configured
// paths.
func validatePath(key, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			key+" must not be empty",
		)
	}

	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") {
		return errors.NewConfigError(
			errors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s contains directory traversal: %s", key, path),
		)
	}

	return nil
}
