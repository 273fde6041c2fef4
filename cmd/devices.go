package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-archiver/pkg/config"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/scanner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// devicesCmd lists the scanners scanimage can see
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached scanner devices",
	Long: `List the scanner devices reported by scanimage -L.

Pass one of them with -d when more than one scanner is attached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfigWithEnvOverrides()
		log := logger.NewLoggerWithWriter(cfg.LogLevel, verbose || cfg.EnableVerbose, cmd.OutOrStdout())
		r := runner.NewExecRunner(log, cfg.ToolTimeout())

		devices, err := scanner.ListDevices(cmd.Context(), r, cfg.ScanimagePath)
		return printDevices(cmd.OutOrStdout(), devices, err)
	},
}

func printDevices(w io.Writer, devices []string, err error) error {
	if errors.Is(err, utils.ErrNoDeviceFound) {
		fmt.Fprintln(w, "No scanners were identified")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "🖨️  %d scanner(s) found:\n", len(devices))
	for _, d := range devices {
		fmt.Fprintf(w, "  %s\n", d)
	}
	return nil
}

func init() {
	devicesCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Echo the scanimage command")
	rootCmd.AddCommand(devicesCmd)
}
