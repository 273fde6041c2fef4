package imaging

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Magick wraps ImageMagick's convert for rotation and raster-to-PDF conversion
type Magick struct {
	runner      runner.CommandRunner
	logger      *logger.Logger
	convertPath string
}

var (
	_ interfaces.Rotator      = (*Magick)(nil)
	_ interfaces.PDFConverter = (*Magick)(nil)
)

// NewMagick creates an ImageMagick wrapper
func NewMagick(r runner.CommandRunner, log *logger.Logger, convertPath string) *Magick {
	return &Magick{
		runner:      r,
		logger:      log,
		convertPath: convertPath,
	}
}

// FormatDegrees renders an angle without a trailing ".0" for whole numbers
func FormatDegrees(degrees float64) string {
	return strconv.FormatFloat(degrees, 'f', -1, 64)
}

// Rotate rotates inputPath clockwise into outputPath. A zero angle is the
// identity: inputPath is returned and nothing runs.
func (m *Magick) Rotate(ctx context.Context, inputPath string, degrees float64, outputPath string) (string, error) {
	if degrees == 0 {
		return inputPath, nil
	}

	m.logger.ProgressAlways("🔄", "Starting rotation")
	_, err := m.runner.Run(ctx, runner.Invocation{
		Name: m.convertPath,
		Args: []string{"-rotate", FormatDegrees(degrees), inputPath, outputPath},
	})
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeConversion, fmt.Sprintf("rotation by %s degrees failed", FormatDegrees(degrees))).
			WithContext("input", inputPath)
	}
	if err := utils.RequireNonEmptyFile(outputPath); err != nil {
		return "", utils.NewConversionError("rotation produced no image", err)
	}
	m.logger.ProgressAlways("✅", "Rotation finished")
	return outputPath, nil
}
