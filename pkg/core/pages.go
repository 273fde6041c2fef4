package core

import (
	"context"
	"strings"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/types"
)

// pageProcessor turns one loaded sheet into its page artifacts
type pageProcessor struct {
	tools     *Toolchain
	workspace interfaces.SessionFileManager
	opts      types.SessionOptions
	device    string
	logger    *logger.Logger
}

// scan acquires the sheet and applies the operator's rotation
func (p *pageProcessor) scan(ctx context.Context, page *types.Page) error {
	page.ScanPath = p.workspace.PagePath(page.Index, "", constants.ScanExtension)

	p.logger.ProgressAlways("📠", "Starting scan")
	if err := p.tools.Scanner.Acquire(ctx, p.device, p.opts.Mode, p.opts.Resolution, page.ScanPath); err != nil {
		return err
	}
	p.logger.ProgressAlways("✅", "Scan finished")

	rotatedPath := page.ScanPath
	if page.Rotation != 0 {
		rotatedPath = p.workspace.PagePath(page.Index, constants.RotatedSuffix, constants.ScanExtension)
	}
	rotated, err := p.tools.Rotator.Rotate(ctx, page.ScanPath, page.Rotation, rotatedPath)
	if err != nil {
		return err
	}
	page.RotatedPath = rotated
	return nil
}

// convert produces the page PDF, and the transcript when asked for, under the session policy
func (p *pageProcessor) convert(ctx context.Context, page *types.Page) error {
	pdfPath := p.workspace.PagePath(page.Index, "", constants.PDFExtension)

	if p.opts.Policy != types.OCRPolicyDirect {
		if err := p.tools.Converter.ConvertToPDF(ctx, page.RotatedPath, pdfPath); err != nil {
			return err
		}
		page.PDFPath = pdfPath
		return nil
	}

	// tesseract appends the extensions to outputBase itself
	outputBase := strings.TrimSuffix(pdfPath, constants.PDFExtension)
	wantText := p.opts.WantsTranscript()
	if wantText {
		p.workspace.Track(outputBase + constants.TextExtension)
	}
	ocrPDF, textPath, err := p.tools.PageOCR.OCRPage(ctx, page.RotatedPath, outputBase, p.opts.Language, wantText)
	if err != nil {
		return err
	}
	page.PDFPath = ocrPDF
	page.TextPath = textPath
	return nil
}
