package document

import (
	"context"
	"fmt"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Assembler builds the output document from the accepted page PDFs
type Assembler struct {
	merger  interfaces.PDFMerger
	counter interfaces.PageCounter
	logger  *logger.Logger
}

// NewAssembler creates an assembler. counter may be nil to skip page-count verification.
func NewAssembler(merger interfaces.PDFMerger, counter interfaces.PageCounter, log *logger.Logger) *Assembler {
	return &Assembler{
		merger:  merger,
		counter: counter,
		logger:  log,
	}
}

// Assemble writes pagePDFs, in the given order, to outputPath. A single page
// is copied byte for byte; several pages are merged.
func (a *Assembler) Assemble(ctx context.Context, pagePDFs []string, outputPath string) error {
	if len(pagePDFs) == 0 {
		return utils.NewValidationError(constants.ErrMsgNoPages, utils.ErrNoPagesAccepted)
	}

	for _, p := range pagePDFs {
		if err := utils.RequireNonEmptyFile(p); err != nil {
			return utils.WrapError(err, utils.ErrorTypeMerge, "page PDF missing before assembly")
		}
	}

	a.logger.ProgressAlways("📚", "Merging pages")
	if len(pagePDFs) == 1 {
		a.logger.Command("cp", []string{pagePDFs[0], outputPath})
		if err := utils.CopyFile(pagePDFs[0], outputPath); err != nil {
			return utils.WrapError(err, utils.ErrorTypeMerge, "failed to copy single page")
		}
	} else {
		a.logger.ProgressAlways("🔗", "Starting pdf unite")
		if err := a.merger.Merge(ctx, pagePDFs, outputPath); err != nil {
			return err
		}
		a.logger.ProgressAlways("✅", "Finished pdf unite")
	}

	return a.verify(outputPath, len(pagePDFs))
}

func (a *Assembler) verify(outputPath string, want int) error {
	if err := utils.RequireNonEmptyFile(outputPath); err != nil {
		return utils.WrapError(err, utils.ErrorTypeMerge, "assembled document missing")
	}
	if a.counter == nil {
		return nil
	}

	got, err := a.counter.PageCount(outputPath)
	if err != nil {
		return err
	}
	if got != want {
		return utils.NewMergeError(fmt.Sprintf("assembled document has %d pages, expected %d", got, want), utils.ErrPageCountMismatch).
			WithContext("path", outputPath)
	}
	a.logger.Debug("Verified %d pages in %s", got, outputPath)
	return nil
}
