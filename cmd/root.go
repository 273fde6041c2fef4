package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nodewee/scan-archiver/pkg/config"
	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/core"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

var (
	outputName     string
	verbose        bool
	language       string
	device         string
	mode           string
	resolution     int
	usePdfsandwich bool
	createTxt      bool
	preOCRCheck    bool
	noOCR          bool
	outputDir      string
	workDir        string
)

// AppHandler encapsulates one archiving session started from the command line
type AppHandler struct {
	config    *config.Config
	logger    *logger.Logger
	opts      types.SessionOptions
	workspace *utils.SessionWorkspace
	in        io.Reader
	out       io.Writer
}

// NewAppHandler creates an application handler reading answers from in
func NewAppHandler(in io.Reader, out io.Writer) *AppHandler {
	return &AppHandler{in: in, out: out}
}

// Archive runs a complete session
func (h *AppHandler) Archive(ctx context.Context, flags flagSet) error {
	if err := h.initialize(flags); err != nil {
		return err
	}

	r := runner.NewExecRunner(h.logger, h.config.ToolTimeout())
	factory := core.NewToolchainFactory(h.config, h.logger, r)
	if err := factory.CheckTools(h.opts.Policy); err != nil {
		return err
	}

	ws, err := utils.NewSessionWorkspace(h.opts.WorkDir, h.opts.BaseName, h.logger)
	if err != nil {
		return err
	}
	h.workspace = ws

	archiver := core.NewArchiver(h.opts, factory.CreateToolchain(), core.NewConsolePrompter(h.in, h.out), ws, h.logger)
	result, err := archiver.Run(ctx)
	if err != nil {
		return err
	}

	h.displayResults(result)
	return nil
}

// initialize layers command line flags over the loaded configuration
func (h *AppHandler) initialize(flags flagSet) error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides(flags)

	if err := h.config.Validate(); err != nil {
		return utils.WrapError(err, utils.ErrorTypeValidation, "configuration validation failed")
	}

	h.logger = logger.NewLoggerWithWriter(h.config.LogLevel, h.config.EnableVerbose, h.out)

	baseName := outputName
	if baseName == "" {
		baseName = time.Now().Format(constants.SessionTimestampLayout)
	}
	baseName = utils.SanitizeFileName(baseName)
	if baseName == "" {
		return utils.NewValidationError("output name is empty after sanitizing", nil)
	}

	h.opts = types.SessionOptions{
		BaseName:    baseName,
		Device:      device,
		Language:    h.config.Language,
		Mode:        h.config.ColorMode(),
		Resolution:  h.config.Resolution,
		Policy:      types.ResolveOCRPolicy(usePdfsandwich, noOCR),
		CreateText:  createTxt,
		PreOCRCheck: preOCRCheck,
		Verbose:     h.config.EnableVerbose,
		OutputDir:   h.config.OutputDir,
		WorkDir:     h.config.WorkDir,
	}

	if createTxt && !h.opts.WantsTranscript() {
		h.logger.Warn("--txt is ignored unless tesseract runs per page")
	}
	if usePdfsandwich && noOCR {
		h.logger.Warn("--noocr overrides --pdfsandwich")
	}
	return nil
}

// flagSet reports which flags were given explicitly
type flagSet interface {
	Changed(name string) bool
}

// applyCommandLineOverrides applies flags the operator actually passed, so
// they win over file and environment without masking them with flag defaults
func (h *AppHandler) applyCommandLineOverrides(flags flagSet) {
	if flags.Changed("language") {
		h.config.Language = language
	}
	if flags.Changed("mode") {
		h.config.Mode = mode
	}
	if flags.Changed("resolution") {
		h.config.Resolution = resolution
	}
	if flags.Changed("outdir") {
		h.config.OutputDir = outputDir
	}
	if flags.Changed("workdir") {
		h.config.WorkDir = workDir
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// displayResults prints the session summary
func (h *AppHandler) displayResults(result *types.SessionResult) {
	fmt.Fprintf(h.out, "✅ Archived %d page(s) to %s\n", result.AcceptedPages, result.OutputPDF)
	if result.OutputText != "" {
		fmt.Fprintf(h.out, "📝 Transcript: %s\n", result.OutputText)
	}
	if result.RejectedPages > 0 {
		fmt.Fprintf(h.out, "⏭️  Rejected pages: %d\n", result.RejectedPages)
	}
	fmt.Fprintf(h.out, "⏱️  Session time: %s\n", result.Elapsed.Round(time.Second))
}

// reportError prints err the way the operator sees it, with the workspace
// kept for inspection when the session got that far
func (h *AppHandler) reportError(w io.Writer, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		fmt.Fprintf(w, "Error (%s): %s\n", appErr.Type, appErr.Message)
		if appErr.Cause != nil {
			fmt.Fprintf(w, "  caused by: %v\n", appErr.Cause)
		}
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	if h.workspace != nil {
		fmt.Fprintf(w, "Intermediate files kept in %s\n", h.workspace.GetBasePath())
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scan-archiver",
	Short: "Scan, rotate and OCR paper documents into one searchable PDF",
	Long: `Scan a stack of paper pages, one at a time, into a single searchable PDF.

Every page is scanned with scanimage, optionally rotated with ImageMagick and
turned into a PDF page. The pages are then merged into <name>.pdf.

OCR policies:
- default:        tesseract runs on every page; --txt also writes <name>_ocr.txt
- --pdfsandwich:  pages are converted without OCR, pdfsandwich runs on the merged document
- --noocr:        no OCR at all (wins over --pdfsandwich)

Between pages you are asked for the rotation of the next page, and whether to
continue (Y), finish (n) or scan the last page again (r).

Examples:
  scan-archiver                                 # Scan into <timestamp>.pdf with German OCR
  scan-archiver -o invoice-2024-03 -l eng       # English OCR, explicit name
  scan-archiver -o letter --txt                 # Also write letter_ocr.txt
  scan-archiver -o photo -m Color --noocr       # Color scan without OCR
  scan-archiver --pdfsandwich --preocrcheck     # Review pages, OCR the whole document at the end
  scan-archiver devices                         # List attached scanners`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
	},
	Run: func(cmd *cobra.Command, args []string) {
		handler := NewAppHandler(cmd.InOrStdin(), cmd.OutOrStdout())
		if err := handler.Archive(cmd.Context(), cmd.Flags()); err != nil {
			handler.reportError(cmd.ErrOrStderr(), err)
			os.Exit(1)
		}
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.Flags().StringVarP(&outputName, "output", "o", "",
		"Base name of the output files (default: current time as YYYY-MM-DD_HH_MM_SS)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Echo every external command before running it")
	rootCmd.Flags().StringVarP(&language, "language", "l", constants.DefaultLanguage,
		"OCR language, as understood by tesseract (e.g. deu, eng, deu+eng)")
	rootCmd.Flags().StringVarP(&device, "device", "d", "",
		"Scanner device (default: the only device reported by scanimage -L)")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", constants.DefaultColorMode,
		"Scan mode (Gray, Color)")
	rootCmd.Flags().IntVarP(&resolution, "resolution", "r", constants.DefaultResolution,
		"Scan resolution in dpi")
	rootCmd.Flags().BoolVar(&usePdfsandwich, "pdfsandwich", false,
		"Skip per-page OCR and run pdfsandwich on the merged document")
	rootCmd.Flags().BoolVar(&createTxt, "txt", false,
		"Also write a plain-text transcript (per-page OCR only)")
	rootCmd.Flags().BoolVar(&preOCRCheck, "preocrcheck", false,
		"Ask to accept every page before it is converted")
	rootCmd.Flags().BoolVar(&noOCR, "noocr", false,
		"Disable OCR entirely")
	rootCmd.Flags().StringVar(&outputDir, "outdir", constants.DefaultOutputDir,
		"Directory for the final PDF and transcript")
	rootCmd.Flags().StringVar(&workDir, "workdir", "",
		"Parent directory of the session workspace (default: system temp directory)")
}
