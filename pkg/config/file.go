package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

const (
	ConfigFileName = "config.yaml"
	AppDirName     = ".scan-archiver"

	// ConfigDirEnv relocates the configuration directory
	ConfigDirEnv = "SCAN_ARCHIVER_CONFIG_DIR"
)

// GetConfigDir returns the user configuration directory (~/.scan-archiver)
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}

	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads configuration from file or creates default if not exists
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to get config file path")
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads the configuration at configPath, creating it with
// auto-detected tool paths when it does not exist yet
func LoadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return createDefaultConfigFile(configPath)
	}
	return loadConfigFromFile(configPath)
}

// createDefaultConfigFile creates a default configuration file with auto-detected tools
func createDefaultConfigFile(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	config := NewConfig()
	detected := detectAndUpdateToolPaths(config, runner.LookPath)

	if err := SaveConfigFile(configPath, config); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to save default config file")
	}

	fmt.Fprintf(os.Stderr, "✅ Created default configuration file: %s\n", configPath)
	if detected > 0 {
		fmt.Fprintf(os.Stderr, "🔍 Auto-detected %d available tools\n", detected)
	}

	return config, nil
}

// loadConfigFromFile loads configuration from an existing file. Keys missing
// from the file keep their defaults.
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeValidation, "failed to parse config file").
			WithContext("path", configPath)
	}

	return config, nil
}

// SaveConfig saves configuration to the user config file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}
	return SaveConfigFile(configPath, config)
}

// SaveConfigFile writes the persisted part of config to configPath
func SaveConfigFile(configPath string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}

	return nil
}

// detectAndUpdateToolPaths resolves each tool against the platform's usual
// install locations and returns how many were found
func detectAndUpdateToolPaths(config *Config, lookPath func(string) (string, bool)) int {
	platformConfig := constants.GetPlatformConfig()

	toolsToDetect := []struct {
		candidates []string
		dst        *string
	}{
		{platformConfig.ScanimagePaths, &config.ScanimagePath},
		{platformConfig.ConvertPaths, &config.ConvertPath},
		{platformConfig.TesseractPaths, &config.TesseractPath},
		{platformConfig.PdfunitePaths, &config.PdfunitePath},
		{platformConfig.PdfsandwichPaths, &config.PdfsandwichPath},
	}

	detected := 0
	for _, tool := range toolsToDetect {
		for _, candidate := range tool.candidates {
			if path, ok := lookPath(candidate + constants.ExecutableExt); ok {
				*tool.dst = utils.NormalizePath(path)
				detected++
				break
			}
		}
	}
	return detected
}

// configKeys maps persisted keys onto their fields
func configKeys(c *Config) map[string]interface{} {
	return map[string]interface{}{
		"scanimage_path":       &c.ScanimagePath,
		"convert_path":         &c.ConvertPath,
		"tesseract_path":       &c.TesseractPath,
		"pdfunite_path":        &c.PdfunitePath,
		"pdfsandwich_path":     &c.PdfsandwichPath,
		"language":             &c.Language,
		"mode":                 &c.Mode,
		"resolution":           &c.Resolution,
		"tool_timeout_minutes": &c.ToolTimeoutMinutes,
		"verify_page_count":    &c.VerifyPageCount,
	}
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(config *Config, key string) (interface{}, error) {
	field, ok := configKeys(config)[key]
	if !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	switch v := field.(type) {
	case *string:
		return *v, nil
	case *int:
		return *v, nil
	case *bool:
		return *v, nil
	}
	return nil, utils.NewValidationError(fmt.Sprintf("unsupported config key: %s", key), nil)
}

// SetConfigValue parses value into the field named by key and validates the result
func SetConfigValue(config *Config, key, value string) error {
	field, ok := configKeys(config)[key]
	if !ok {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	switch v := field.(type) {
	case *string:
		*v = value
	case *int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return utils.NewValidationError(fmt.Sprintf("%s must be an integer", key), err)
		}
		*v = intVal
	case *bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return utils.NewValidationError(fmt.Sprintf("%s must be true or false", key), err)
		}
		*v = boolVal
	}

	return config.Validate()
}

// ListConfigKeys returns all available configuration keys
func ListConfigKeys() []string {
	keys := make([]string, 0, len(configKeys(&Config{})))
	for key := range configKeys(&Config{}) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
