package types

import "time"

// OCRPolicy selects how OCR is applied to a session
type OCRPolicy string

const (
	OCRPolicyDirect   OCRPolicy = "direct"   // tesseract per page, before assembly
	OCRPolicyDeferred OCRPolicy = "deferred" // pdfsandwich over the assembled document
	OCRPolicyDisabled OCRPolicy = "disabled" // plain raster-to-PDF conversion only
)

// ResolveOCRPolicy maps the command line switches onto a policy.
// Disabling OCR wins over deferring it.
func ResolveOCRPolicy(pdfsandwich, noOCR bool) OCRPolicy {
	switch {
	case noOCR:
		return OCRPolicyDisabled
	case pdfsandwich:
		return OCRPolicyDeferred
	default:
		return OCRPolicyDirect
	}
}

// ColorMode is the scan mode passed to scanimage
type ColorMode string

const (
	ColorModeGray  ColorMode = "Gray"
	ColorModeColor ColorMode = "Color"
)

// PageState is a state of the per-page loop
type PageState int

const (
	PageStateLoading PageState = iota
	PageStateScanning
	PageStateReviewing
	PageStateConverting
	PageStateDeciding
	PageStateRepeating
	PageStateFinished
)

func (s PageState) String() string {
	switch s {
	case PageStateLoading:
		return "loading"
	case PageStateScanning:
		return "scanning"
	case PageStateReviewing:
		return "reviewing"
	case PageStateConverting:
		return "converting"
	case PageStateDeciding:
		return "deciding"
	case PageStateRepeating:
		return "repeating"
	case PageStateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Decision is the operator's answer after a page has been processed
type Decision int

const (
	DecisionContinue Decision = iota
	DecisionFinish
	DecisionRepeat
)

// SessionOptions holds everything a single archiving run needs
type SessionOptions struct {
	BaseName    string
	Device      string
	Language    string
	Mode        ColorMode
	Resolution  int
	Policy      OCRPolicy
	CreateText  bool
	PreOCRCheck bool
	Verbose     bool
	OutputDir   string
	WorkDir     string
}

// WantsTranscript reports whether per-page transcripts are produced.
// Transcripts only exist under the direct policy.
func (o SessionOptions) WantsTranscript() bool {
	return o.CreateText && o.Policy == OCRPolicyDirect
}

// WantsReview reports whether the operator is asked to accept each page
func (o SessionOptions) WantsReview() bool {
	return o.PreOCRCheck && o.Policy != OCRPolicyDisabled
}

// Page is one scanned sheet and the artifacts derived from it
type Page struct {
	Index       int     `json:"index"`
	Rotation    float64 `json:"rotation"`
	ScanPath    string  `json:"scan_path"`
	RotatedPath string  `json:"rotated_path"`
	PDFPath     string  `json:"pdf_path,omitempty"`
	TextPath    string  `json:"text_path,omitempty"`
	Accepted    bool    `json:"accepted"`
}

// SessionResult summarizes a finished run
type SessionResult struct {
	OutputPDF     string        `json:"output_pdf"`
	OutputText    string        `json:"output_text,omitempty"`
	AcceptedPages int           `json:"accepted_pages"`
	RejectedPages int           `json:"rejected_pages"`
	Policy        OCRPolicy     `json:"policy"`
	Device        string        `json:"device"`
	Elapsed       time.Duration `json:"elapsed"`
}
