package scanner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Acquirer scans pages with scanimage
type Acquirer struct {
	runner        runner.CommandRunner
	logger        *logger.Logger
	scanimagePath string
	attempts      int
	retryDelay    time.Duration
}

var _ interfaces.Scanner = (*Acquirer)(nil)

// NewAcquirer creates an Acquirer with the default attempt budget
func NewAcquirer(r runner.CommandRunner, log *logger.Logger, scanimagePath string) *Acquirer {
	return &Acquirer{
		runner:        r,
		logger:        log,
		scanimagePath: scanimagePath,
		attempts:      constants.DefaultScanAttempts,
	}
}

// WithRetryDelay waits between failed attempts
func (a *Acquirer) WithRetryDelay(d time.Duration) *Acquirer {
	a.retryDelay = d
	return a
}

// Args builds the scanimage argument list for one page
func Args(device string, mode types.ColorMode, resolution int) []string {
	return []string{
		"--device", device,
		"-x", constants.ScanWidthMM,
		"-y", constants.ScanHeightMM,
		"--resolution", strconv.Itoa(resolution),
		"--mode", string(mode),
		"--format=" + constants.ScanFormat,
	}
}

// Acquire scans one page into outputPath. Every attempt rewrites outputPath
// from scratch; after the attempt budget is spent ErrScanExhausted is returned.
func (a *Acquirer) Acquire(ctx context.Context, device string, mode types.ColorMode, resolution int, outputPath string) error {
	inv := runner.Invocation{
		Name:       a.scanimagePath,
		Args:       Args(device, mode, resolution),
		StdoutPath: outputPath,
	}

	handler := utils.NewSimpleErrorHandler(a.attempts, a.retryDelay).OnFailure(func(attempt int, err error) {
		if attempt < a.attempts {
			a.logger.ProgressAlways("⚠️", "scanimage returned %d, trying again", runner.ExitCodeOf(err))
		} else {
			a.logger.ProgressAlways("⚠️", "scanimage returned %d", runner.ExitCodeOf(err))
		}
	})

	attempts, err := handler.WithRetryContext(ctx, func(attempt int) error {
		a.logger.Debug("Scan attempt %d/%d", attempt, a.attempts)
		_, runErr := a.runner.Run(ctx, inv)
		return runErr
	})
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return utils.WrapError(err, utils.ErrorTypeTimeout, "scan interrupted")
	}

	return utils.NewScanError(fmt.Sprintf("%d unsuccessful tries, giving up", attempts), utils.ErrScanExhausted).
		WithContext("attempts", attempts).
		WithContext("last_error", err.Error()).
		WithContext("device", device)
}
