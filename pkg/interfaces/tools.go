package interfaces

import (
	"context"

	"github.com/nodewee/scan-archiver/pkg/types"
)

// DeviceResolver picks the scanner device for a session
type DeviceResolver interface {
	// Resolve returns explicit unchanged when set, otherwise the only attached device
	Resolve(ctx context.Context, explicit string) (string, error)
}

// Scanner acquires one page from a scanner device
type Scanner interface {
	// Acquire scans a page into outputPath, retrying on failure
	Acquire(ctx context.Context, device string, mode types.ColorMode, resolution int, outputPath string) error
}

// Rotator rotates a raster image clockwise
type Rotator interface {
	// Rotate returns the path of the rotated image; input is returned unchanged for 0 degrees
	Rotate(ctx context.Context, inputPath string, degrees float64, outputPath string) (string, error)
}

// PDFConverter turns a raster image into a PDF without a text layer
type PDFConverter interface {
	ConvertToPDF(ctx context.Context, inputPath, outputPath string) error
}

// PageOCR runs OCR on one raster page
type PageOCR interface {
	// OCRPage writes {outputBase}.pdf and, when wantText is set, {outputBase}.txt
	OCRPage(ctx context.Context, inputPath, outputBase, language string, wantText bool) (pdfPath, textPath string, err error)
}

// DocumentOCR adds a text layer to an assembled PDF in place
type DocumentOCR interface {
	OCRDocument(ctx context.Context, path, language string) error
}

// PDFMerger concatenates PDFs in order
type PDFMerger interface {
	Merge(ctx context.Context, inputs []string, outputPath string) error
	Name() string
}

// PageCounter reports the number of pages in a PDF
type PageCounter interface {
	PageCount(path string) (int, error)
}

// Prompter asks the operator questions between pages
type Prompter interface {
	// AskRotation returns the rotation for a page, current is the default
	AskRotation(index int, current float64) (float64, error)

	// ReviewPage returns false only when the operator rejects the page
	ReviewPage(index int) (bool, error)

	// AskContinue asks what to do after a page has been processed
	AskContinue(index int) (types.Decision, error)
}
