package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-archiver/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool paths and session defaults",
	Long: `Manage tool paths and session defaults.

Configuration is stored in a YAML file in your home directory (~/.scan-archiver/config.yaml),
created with auto-detected tool paths on first use. Environment variables (also read from
a .env file) and command line flags override it.

Examples:
  scan-archiver config list                             # List all settings
  scan-archiver config get tesseract_path               # Get the tesseract path
  scan-archiver config set pdfunite_path /usr/bin/pdfunite
  scan-archiver config set language eng                 # Default OCR language`,
}

// listConfig lists every persisted setting
func listConfig(w io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	configPath, _ := config.GetConfigFilePath()
	fmt.Fprintln(w, "🛠️  Scan Archiver Configuration")
	fmt.Fprintln(w, "==============================")
	fmt.Fprintf(w, "📁 Config file: %s\n\n", configPath)

	for _, key := range config.ListConfigKeys() {
		value, err := config.GetConfigValue(cfg, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %-22s = %s\n", key, getDisplayValue(value))
	}

	fmt.Fprintln(w, "\n💡 Tip: Use 'scan-archiver config set <key> <value>' to change a setting")
	return nil
}

// getConfig prints a specific configuration value
func getConfig(w io.Writer, key string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	value, err := config.GetConfigValue(cfg, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "📝 %s = %v\n", key, value)
	return nil
}

// setConfig validates and persists a configuration value
func setConfig(w io.Writer, key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := config.SetConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "✅ Successfully set %s = %v\n", key, value)
	return nil
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value interface{}) string {
	if s, ok := value.(string); ok && s == "" {
		return "(not set)"
	}
	return fmt.Sprint(value)
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfig(cmd.OutOrStdout())
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getConfig(cmd.OutOrStdout(), args[0])
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfig(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
