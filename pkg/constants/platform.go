package constants

import (
	"runtime"
)

// Platform-specific constants
var (
	// Current operating system
	CurrentOS = runtime.GOOS

	// Platform-specific executable extensions
	ExecutableExt = getExecutableExtension()
)

// PlatformConfig lists where each external tool is usually installed
type PlatformConfig struct {
	ScanimagePaths   []string
	ConvertPaths     []string
	TesseractPaths   []string
	PdfunitePaths    []string
	PdfsandwichPaths []string
}

// GetPlatformConfig returns platform-specific configuration
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "darwin":
		return &PlatformConfig{
			ScanimagePaths: []string{
				"scanimage",
				"/opt/homebrew/bin/scanimage",
				"/usr/local/bin/scanimage",
			},
			ConvertPaths: []string{
				"convert",
				"magick",
				"/opt/homebrew/bin/convert",
				"/usr/local/bin/convert",
			},
			TesseractPaths: []string{
				"tesseract",
				"/opt/homebrew/bin/tesseract",
				"/usr/local/bin/tesseract",
			},
			PdfunitePaths: []string{
				"pdfunite",
				"/opt/homebrew/bin/pdfunite",
				"/usr/local/bin/pdfunite",
			},
			PdfsandwichPaths: []string{
				"pdfsandwich",
				"/usr/local/bin/pdfsandwich",
			},
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			ScanimagePaths: []string{
				"scanimage",
				"/usr/bin/scanimage",
				"/usr/local/bin/scanimage",
			},
			ConvertPaths: []string{
				"convert",
				"/usr/bin/convert",
				"/usr/local/bin/convert",
				"magick",
			},
			TesseractPaths: []string{
				"tesseract",
				"/usr/bin/tesseract",
				"/usr/local/bin/tesseract",
				"/snap/bin/tesseract",
			},
			PdfunitePaths: []string{
				"pdfunite",
				"/usr/bin/pdfunite",
				"/usr/local/bin/pdfunite",
			},
			PdfsandwichPaths: []string{
				"pdfsandwich",
				"/usr/bin/pdfsandwich",
				"/usr/local/bin/pdfsandwich",
			},
		}
	}
}

// getExecutableExtension returns the executable file extension for the current platform
func getExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
