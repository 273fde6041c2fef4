package ocr

import (
	"context"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// TesseractEngine runs tesseract on single raster pages
type TesseractEngine struct {
	runner        runner.CommandRunner
	logger        *logger.Logger
	tesseractPath string
}

var _ interfaces.PageOCR = (*TesseractEngine)(nil)

// NewTesseractEngine creates a tesseract wrapper
func NewTesseractEngine(r runner.CommandRunner, log *logger.Logger, tesseractPath string) *TesseractEngine {
	return &TesseractEngine{
		runner:        r,
		logger:        log,
		tesseractPath: tesseractPath,
	}
}

// Name returns the name of the OCR tool
func (e *TesseractEngine) Name() string {
	return constants.ToolTesseract
}

// PageArgs builds the tesseract argument list. tesseract appends the
// extension of each requested output config to outputBase itself.
func PageArgs(inputPath, outputBase, language string, wantText bool) []string {
	args := []string{inputPath, outputBase, "-l", language, "pdf"}
	if wantText {
		args = append(args, "txt")
	}
	return args
}

// OCRPage produces a searchable {outputBase}.pdf and optionally {outputBase}.txt
func (e *TesseractEngine) OCRPage(ctx context.Context, inputPath, outputBase, language string, wantText bool) (string, string, error) {
	e.logger.ProgressAlways("🔍", "OCR (direct) started")

	_, err := e.runner.Run(ctx, runner.Invocation{
		Name: e.tesseractPath,
		Args: PageArgs(inputPath, outputBase, language, wantText),
	})
	if err != nil {
		return "", "", utils.WrapError(err, utils.ErrorTypeOCR, "tesseract failed").
			WithContext("input", inputPath).
			WithContext("language", language)
	}

	pdfPath := outputBase + constants.PDFExtension
	if err := utils.RequireNonEmptyFile(pdfPath); err != nil {
		return "", "", utils.NewOCRError("tesseract produced no PDF", err)
	}

	var textPath string
	if wantText {
		textPath = outputBase + constants.TextExtension
		// An empty transcript is legitimate for a blank page, a missing one is not
		if !utils.FileExists(textPath) {
			return "", "", utils.NewOCRError("tesseract produced no transcript", utils.ErrMissingToolOutput).
				WithContext("path", textPath)
		}
	}

	e.logger.ProgressAlways("✅", "OCR finished")
	return pdfPath, textPath, nil
}
