package ocr

import (
	"context"

	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// SandwichEngine adds a text layer to a whole PDF with pdfsandwich
type SandwichEngine struct {
	runner          runner.CommandRunner
	logger          *logger.Logger
	pdfsandwichPath string
}

var _ interfaces.DocumentOCR = (*SandwichEngine)(nil)

// NewSandwichEngine creates a pdfsandwich wrapper
func NewSandwichEngine(r runner.CommandRunner, log *logger.Logger, pdfsandwichPath string) *SandwichEngine {
	return &SandwichEngine{
		runner:          r,
		logger:          log,
		pdfsandwichPath: pdfsandwichPath,
	}
}

// DocumentArgs builds the pdfsandwich argument list for in-place OCR
func DocumentArgs(path, language string, verbose bool) []string {
	args := []string{"-lang", language, path, "-o", path}
	if verbose {
		args = append(args, "-verbose")
	}
	return args
}

// OCRDocument rewrites path in place with an embedded text layer
func (e *SandwichEngine) OCRDocument(ctx context.Context, path, language string) error {
	e.logger.ProgressAlways("🔍", "OCR (pdfsandwich for whole pdf) started")

	_, err := e.runner.Run(ctx, runner.Invocation{
		Name: e.pdfsandwichPath,
		Args: DocumentArgs(path, language, e.logger.Verbose()),
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeOCR, "pdfsandwich failed").
			WithContext("path", path).
			WithContext("language", language)
	}
	if err := utils.RequireNonEmptyFile(path); err != nil {
		return utils.NewOCRError("pdfsandwich left no document", err)
	}

	e.logger.ProgressAlways("✅", "OCR finished")
	return nil
}
