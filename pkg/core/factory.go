package core

import (
	"fmt"
	"strings"

	"github.com/nodewee/scan-archiver/pkg/config"
	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/document"
	"github.com/nodewee/scan-archiver/pkg/imaging"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/ocr"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/scanner"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Toolchain bundles the external capabilities a session drives
type Toolchain struct {
	Devices     interfaces.DeviceResolver
	Scanner     interfaces.Scanner
	Rotator     interfaces.Rotator
	Converter   interfaces.PDFConverter
	PageOCR     interfaces.PageOCR
	DocumentOCR interfaces.DocumentOCR
	Merger      interfaces.PDFMerger
	Counter     interfaces.PageCounter
}

// ToolchainFactory builds a Toolchain from configuration
type ToolchainFactory struct {
	config   *config.Config
	logger   *logger.Logger
	runner   runner.CommandRunner
	lookPath func(string) (string, bool)
}

// NewToolchainFactory creates a factory that resolves tools on PATH
func NewToolchainFactory(cfg *config.Config, log *logger.Logger, r runner.CommandRunner) *ToolchainFactory {
	return &ToolchainFactory{
		config:   cfg,
		logger:   log,
		runner:   r,
		lookPath: runner.LookPath,
	}
}

// WithLookPath replaces PATH resolution, for tests
func (f *ToolchainFactory) WithLookPath(lookPath func(string) (string, bool)) *ToolchainFactory {
	f.lookPath = lookPath
	return f
}

// CreateToolchain wires every capability to its configured tool
func (f *ToolchainFactory) CreateToolchain() *Toolchain {
	magick := imaging.NewMagick(f.runner, f.logger, f.config.ConvertPath)

	tc := &Toolchain{
		Devices:     scanner.NewResolver(f.runner, f.config.ScanimagePath),
		Scanner:     scanner.NewAcquirer(f.runner, f.logger, f.config.ScanimagePath),
		Rotator:     magick,
		Converter:   magick,
		PageOCR:     ocr.NewTesseractEngine(f.runner, f.logger, f.config.TesseractPath),
		DocumentOCR: ocr.NewSandwichEngine(f.runner, f.logger, f.config.PdfsandwichPath),
		Merger:      f.selectMerger(),
	}
	if f.config.VerifyPageCount {
		tc.Counter = document.PdfcpuPageCounter{}
	}
	return tc
}

// selectMerger prefers pdfunite and falls back to the in-process merger
func (f *ToolchainFactory) selectMerger() interfaces.PDFMerger {
	if _, ok := f.lookPath(f.config.PdfunitePath); ok {
		f.logger.Debug("Selected merger: %s", constants.ToolPdfunite)
		return document.NewPdfuniteMerger(f.runner, f.logger, f.config.PdfunitePath)
	}
	f.logger.Warn("%s not found, merging pages with pdfcpu", f.config.PdfunitePath)
	return document.NewPdfcpuMerger(f.logger)
}

// ToolRequirement names a tool a session cannot run without
type ToolRequirement struct {
	Key  string
	Path string
}

// RequiredTools returns the tools a policy needs
func RequiredTools(cfg *config.Config, policy types.OCRPolicy) []ToolRequirement {
	tools := []ToolRequirement{
		{"scanimage_path", cfg.ScanimagePath},
		{"convert_path", cfg.ConvertPath},
	}
	switch policy {
	case types.OCRPolicyDirect:
		tools = append(tools, ToolRequirement{"tesseract_path", cfg.TesseractPath})
	case types.OCRPolicyDeferred:
		tools = append(tools, ToolRequirement{"pdfsandwich_path", cfg.PdfsandwichPath})
	}
	return tools
}

// CheckTools fails before the first page when a tool the policy needs is missing
func (f *ToolchainFactory) CheckTools(policy types.OCRPolicy) error {
	var missing []string
	for _, tool := range RequiredTools(f.config, policy) {
		if _, ok := f.lookPath(tool.Path); !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Path, tool.Key))
		}
	}
	if len(missing) > 0 {
		return utils.NewNotFoundError(
			fmt.Sprintf("required tools not found: %s", strings.Join(missing, ", ")), nil).
			WithContext("policy", string(policy))
	}
	return nil
}
