package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/types"
)

// Default values and constants
const (
	DefaultLogLevel        = "info"
	DefaultEnableVerbose   = false
	DefaultVerifyPageCount = true
)

// Config holds application configuration
type Config struct {
	// External tool paths
	ScanimagePath   string `yaml:"scanimage_path"`
	ConvertPath     string `yaml:"convert_path"`
	TesseractPath   string `yaml:"tesseract_path"`
	PdfunitePath    string `yaml:"pdfunite_path"`
	PdfsandwichPath string `yaml:"pdfsandwich_path"`

	// Session defaults, overridable per run
	Language           string `yaml:"language"`
	Mode               string `yaml:"mode"`
	Resolution         int    `yaml:"resolution"`
	ToolTimeoutMinutes int    `yaml:"tool_timeout_minutes"`
	VerifyPageCount    bool   `yaml:"verify_page_count"`

	// Runtime settings (not persisted to file)
	OutputDir     string `yaml:"-"`
	WorkDir       string `yaml:"-"`
	LogLevel      string `yaml:"-"`
	EnableVerbose bool   `yaml:"-"`
}

// NewConfig returns a configuration holding only built-in defaults
func NewConfig() *Config {
	return &Config{
		ScanimagePath:      constants.ToolScanimage,
		ConvertPath:        constants.ToolConvert,
		TesseractPath:      constants.ToolTesseract,
		PdfunitePath:       constants.ToolPdfunite,
		PdfsandwichPath:    constants.ToolPdfsandwich,
		Language:           constants.DefaultLanguage,
		Mode:               constants.DefaultColorMode,
		Resolution:         constants.DefaultResolution,
		ToolTimeoutMinutes: constants.DefaultToolTimeoutMin,
		VerifyPageCount:    DefaultVerifyPageCount,
		OutputDir:          constants.DefaultOutputDir,
		LogLevel:           DefaultLogLevel,
		EnableVerbose:      DefaultEnableVerbose,
	}
}

// DefaultConfig returns the configuration by loading from file or creating default
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config file, using basic defaults: %v\n", err)
		return NewConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads config from file and applies environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()
	config.ApplyEnv(os.LookupEnv)
	return config
}

// ApplyEnv overrides fields from environment variables read through lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if value, ok := lookup(key); ok && value != "" {
			*dst = value
		}
	}
	num := func(key string, dst *int) {
		if value, ok := lookup(key); ok && value != "" {
			if intVal, err := strconv.Atoi(value); err == nil {
				*dst = intVal
			}
		}
	}
	flag := func(key string, dst *bool) {
		if value, ok := lookup(key); ok && value != "" {
			*dst = value == "true" || value == "1" || value == "yes"
		}
	}

	// Tool paths
	str("SCANIMAGE_PATH", &c.ScanimagePath)
	str("CONVERT_PATH", &c.ConvertPath)
	str("TESSERACT_PATH", &c.TesseractPath)
	str("PDFUNITE_PATH", &c.PdfunitePath)
	str("PDFSANDWICH_PATH", &c.PdfsandwichPath)

	// Session settings
	str("SCAN_ARCHIVER_LANGUAGE", &c.Language)
	str("SCAN_ARCHIVER_MODE", &c.Mode)
	num("SCAN_ARCHIVER_RESOLUTION", &c.Resolution)
	num("SCAN_ARCHIVER_TOOL_TIMEOUT_MINUTES", &c.ToolTimeoutMinutes)
	flag("SCAN_ARCHIVER_VERIFY_PAGE_COUNT", &c.VerifyPageCount)
	str("SCAN_ARCHIVER_OUTPUT_DIR", &c.OutputDir)
	str("SCAN_ARCHIVER_WORK_DIR", &c.WorkDir)
	str("SCAN_ARCHIVER_LOG_LEVEL", &c.LogLevel)
	flag("SCAN_ARCHIVER_VERBOSE", &c.EnableVerbose)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// ColorMode returns the configured scan mode
func (c *Config) ColorMode() types.ColorMode {
	return types.ColorMode(c.Mode)
}

// ToolTimeout returns the per-tool timeout, zero meaning none
func (c *Config) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutMinutes) * time.Minute
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Language: %s, Mode: %s, Resolution: %d, LogLevel: %s, Verbose: %v}",
		c.Language, c.Mode, c.Resolution, c.LogLevel, c.EnableVerbose)
}
