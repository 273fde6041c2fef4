package document

import (
	"context"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// PdfuniteMerger concatenates PDFs with poppler's pdfunite
type PdfuniteMerger struct {
	runner       runner.CommandRunner
	logger       *logger.Logger
	pdfunitePath string
}

var _ interfaces.PDFMerger = (*PdfuniteMerger)(nil)

// NewPdfuniteMerger creates a pdfunite wrapper
func NewPdfuniteMerger(r runner.CommandRunner, log *logger.Logger, pdfunitePath string) *PdfuniteMerger {
	return &PdfuniteMerger{
		runner:       r,
		logger:       log,
		pdfunitePath: pdfunitePath,
	}
}

// Name returns the merger name
func (m *PdfuniteMerger) Name() string {
	return constants.ToolPdfunite
}

// Merge runs `pdfunite in1.pdf in2.pdf ... out.pdf`
func (m *PdfuniteMerger) Merge(ctx context.Context, inputs []string, outputPath string) error {
	args := make([]string, 0, len(inputs)+1)
	args = append(args, inputs...)
	args = append(args, outputPath)

	if _, err := m.runner.Run(ctx, runner.Invocation{Name: m.pdfunitePath, Args: args}); err != nil {
		return utils.WrapError(err, utils.ErrorTypeMerge, "pdfunite failed").
			WithContext("pages", len(inputs))
	}
	return nil
}

var pdfcpuSetup sync.Once

// usePdfcpu keeps pdfcpu from creating its config directory under the user's home
func usePdfcpu() {
	pdfcpuSetup.Do(api.DisableConfigDir)
}

// PdfcpuMerger concatenates PDFs in process; used when pdfunite is not installed
type PdfcpuMerger struct {
	logger *logger.Logger
}

var _ interfaces.PDFMerger = (*PdfcpuMerger)(nil)

// NewPdfcpuMerger creates an in-process merger
func NewPdfcpuMerger(log *logger.Logger) *PdfcpuMerger {
	usePdfcpu()
	return &PdfcpuMerger{logger: log}
}

// Name returns the merger name
func (m *PdfcpuMerger) Name() string {
	return "pdfcpu"
}

// Merge writes the concatenation of inputs to outputPath
func (m *PdfcpuMerger) Merge(ctx context.Context, inputs []string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Debug("Merging %d PDFs with pdfcpu into %s", len(inputs), outputPath)
	if err := api.MergeCreateFile(inputs, outputPath, false, nil); err != nil {
		return utils.WrapError(err, utils.ErrorTypeMerge, "pdfcpu merge failed").
			WithContext("pages", len(inputs))
	}
	return nil
}

// PdfcpuPageCounter counts pages with pdfcpu
type PdfcpuPageCounter struct{}

var _ interfaces.PageCounter = PdfcpuPageCounter{}

// PageCount returns the number of pages in path
func (PdfcpuPageCounter) PageCount(path string) (int, error) {
	usePdfcpu()
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrorTypeMerge, "failed to read page count").
			WithContext("path", path)
	}
	return n, nil
}
