package constants

// Application constants
const (
	AppName = "scan-archiver"
	// The version is injected into main.go with ldflags and shown by the version command
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Session naming
	SessionTimestampLayout = "2006-01-02_15_04_05"
	WorkspaceDirPrefix     = "scan-archiver-"

	// Intermediate and output naming
	PageFilePattern       = "%s_%d"
	ScanExtension         = ".tiff"
	RotatedSuffix         = "_rot"
	PDFExtension          = ".pdf"
	TextExtension         = ".txt"
	TranscriptSuffix      = "_ocr"
	DefaultOutputDir      = "."
	DefaultToolTimeoutMin = 0 // no timeout, a hung tool blocks the session
)

// Scan settings
const (
	DefaultScanAttempts = 3
	DefaultLanguage     = "deu"
	DefaultResolution   = 600
	DefaultColorMode    = "Gray"

	// Geometry of an A4 sheet in millimetres, as accepted by scanimage -x/-y
	ScanWidthMM  = "215"
	ScanHeightMM = "296.9"
	ScanFormat   = "tiff"

	MinResolution = 50
	MaxResolution = 4800
)

// Device listing
const (
	NoScannersMarker = "No scanners were identified"
	DeviceLinePrefix = "device "
)

// Tool names
const (
	ToolScanimage   = "scanimage"
	ToolConvert     = "convert"
	ToolTesseract   = "tesseract"
	ToolPdfunite    = "pdfunite"
	ToolPdfsandwich = "pdfsandwich"
)

// Error messages
const (
	ErrMsgNoDevice        = "no scanner device found"
	ErrMsgAmbiguousDevice = "more than one scanner device found, pass one with -d"
	ErrMsgNoPages         = "no pages were accepted, nothing to assemble"
)
