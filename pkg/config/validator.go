package config

import (
	"fmt"
	"strings"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// ConfigValidator checks a Config before a session starts
type ConfigValidator struct{}

// NewConfigValidator creates a validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate returns a single validation error listing every problem found
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateColorMode(c.Mode); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLanguage(c.Language); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateToolPaths(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

func (v *ConfigValidator) validateColorMode(mode string) error {
	validModes := []types.ColorMode{
		types.ColorModeGray,
		types.ColorModeColor,
	}

	for _, valid := range validModes {
		if types.ColorMode(mode) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid color mode: %s (expected Gray or Color)", mode)
}

func (v *ConfigValidator) validateNumericValues(c *Config) error {
	if c.Resolution < constants.MinResolution || c.Resolution > constants.MaxResolution {
		return fmt.Errorf("resolution must be between %d and %d dpi", constants.MinResolution, constants.MaxResolution)
	}
	if c.ToolTimeoutMinutes < 0 {
		return fmt.Errorf("tool timeout must be non-negative")
	}
	return nil
}

// validateLanguage accepts tesseract language specs such as "deu" or "deu+eng"
func (v *ConfigValidator) validateLanguage(lang string) error {
	if lang == "" {
		return fmt.Errorf("language must not be empty")
	}
	if strings.ContainsAny(lang, " \t/\\") {
		return fmt.Errorf("invalid language: %s", lang)
	}
	return nil
}

func (v *ConfigValidator) validateToolPaths(c *Config) error {
	required := []struct{ key, path string }{
		{"scanimage_path", c.ScanimagePath},
		{"convert_path", c.ConvertPath},
	}
	for _, tool := range required {
		if strings.TrimSpace(tool.path) == "" {
			return fmt.Errorf("%s must not be empty", tool.key)
		}
	}
	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}
