package imaging

import (
	"context"

	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// ConvertToPDF wraps a raster page into a PDF without any text layer
func (m *Magick) ConvertToPDF(ctx context.Context, inputPath, outputPath string) error {
	m.logger.ProgressAlways("🖨️", "Starting file conversion")
	_, err := m.runner.Run(ctx, runner.Invocation{
		Name: m.convertPath,
		Args: []string{inputPath, outputPath},
	})
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeConversion, "raster to PDF conversion failed").
			WithContext("input", inputPath)
	}
	if err := utils.RequireNonEmptyFile(outputPath); err != nil {
		return utils.NewConversionError("conversion produced no PDF", err)
	}
	m.logger.ProgressAlways("✅", "File conversion finished")
	return nil
}
