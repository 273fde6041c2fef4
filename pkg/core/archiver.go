package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/document"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Archiver drives one scanning session from the first page to the final document
type Archiver struct {
	opts      types.SessionOptions
	tools     *Toolchain
	prompter  interfaces.Prompter
	workspace interfaces.SessionFileManager
	assembler *document.Assembler
	logger    *logger.Logger

	state types.PageState
	pages []types.Page
}

// NewArchiver creates an archiver. Intermediates go to workspace; final
// outputs go to opts.OutputDir.
func NewArchiver(opts types.SessionOptions, tools *Toolchain, prompter interfaces.Prompter, workspace interfaces.SessionFileManager, log *logger.Logger) *Archiver {
	opts.BaseName = utils.SanitizeFileName(opts.BaseName)
	if opts.OutputDir == "" {
		opts.OutputDir = constants.DefaultOutputDir
	}
	return &Archiver{
		opts:      opts,
		tools:     tools,
		prompter:  prompter,
		workspace: workspace,
		assembler: document.NewAssembler(tools.Merger, tools.Counter, log),
		logger:    log,
		state:     types.PageStateLoading,
	}
}

// State returns the page loop's current state
func (a *Archiver) State() types.PageState {
	return a.state
}

// Pages returns the recorded pages, rejected ones included
func (a *Archiver) Pages() []types.Page {
	out := make([]types.Page, len(a.pages))
	copy(out, a.pages)
	return out
}

// Run scans pages until the operator stops, then assembles the document.
// Intermediates are removed only when everything succeeded.
func (a *Archiver) Run(ctx context.Context) (*types.SessionResult, error) {
	startTime := time.Now()

	switch a.opts.Policy {
	case types.OCRPolicyDeferred:
		a.logger.ProgressAlways("📄", "Using pdfsandwich")
	case types.OCRPolicyDirect:
		a.logger.ProgressAlways("📄", "Using tesseract directly")
	default:
		a.logger.ProgressAlways("📄", "OCR disabled")
	}

	device, err := a.tools.Devices.Resolve(ctx, a.opts.Device)
	if err != nil {
		return nil, err
	}
	a.logger.Progress("🖨️", "Using device %s", device)

	proc := &pageProcessor{
		tools:     a.tools,
		workspace: a.workspace,
		opts:      a.opts,
		device:    device,
		logger:    a.logger,
	}
	if err := a.runPages(ctx, proc); err != nil {
		return nil, err
	}

	result, err := a.finish(ctx)
	if err != nil {
		return nil, err
	}
	result.Device = device

	if err := a.workspace.Cleanup(); err != nil {
		a.logger.Warn("Cleanup incomplete: %v", err)
	} else {
		a.logger.ProgressAlways("🧹", "Cleaned up and done")
	}

	result.Elapsed = time.Since(startTime)
	return result, nil
}

// runPages is the per-page state machine
func (a *Archiver) runPages(ctx context.Context, proc *pageProcessor) error {
	index := 0
	rotation := 0.0
	var page types.Page

	a.state = types.PageStateLoading
	for a.state != types.PageStateFinished {
		if err := ctx.Err(); err != nil {
			return utils.WrapError(err, utils.ErrorTypeTimeout, "session interrupted")
		}

		switch a.state {
		case types.PageStateLoading:
			r, err := a.prompter.AskRotation(index, rotation)
			if err != nil {
				return err
			}
			rotation = r
			page = types.Page{Index: index, Rotation: rotation}
			a.transition(index, types.PageStateScanning)

		case types.PageStateScanning:
			if err := proc.scan(ctx, &page); err != nil {
				return err
			}
			a.transition(index, types.PageStateReviewing)

		case types.PageStateReviewing:
			page.Accepted = true
			if a.opts.WantsReview() {
				accepted, err := a.prompter.ReviewPage(index)
				if err != nil {
					return err
				}
				page.Accepted = accepted
			}
			if page.Accepted {
				a.transition(index, types.PageStateConverting)
			} else {
				a.logger.ProgressAlways("⏭️", "Page %d rejected, skipping conversion", index)
				a.transition(index, types.PageStateDeciding)
			}

		case types.PageStateConverting:
			if err := proc.convert(ctx, &page); err != nil {
				return err
			}
			a.transition(index, types.PageStateDeciding)

		case types.PageStateDeciding:
			a.pages = append(a.pages, page)
			decision, err := a.prompter.AskContinue(index)
			if err != nil {
				return err
			}
			switch decision {
			case types.DecisionFinish:
				a.transition(index, types.PageStateFinished)
			case types.DecisionRepeat:
				a.transition(index, types.PageStateRepeating)
			default:
				index++
				a.transition(index, types.PageStateLoading)
			}

		case types.PageStateRepeating:
			// the record just appended belongs to this index
			a.pages = a.pages[:len(a.pages)-1]
			a.logger.ProgressAlways("🔁", "Repeating page %d", index)
			a.transition(index, types.PageStateLoading)

		default:
			return utils.NewSystemError(fmt.Sprintf("unexpected page state %s", a.state), nil)
		}
	}
	return nil
}

func (a *Archiver) transition(index int, next types.PageState) {
	a.logger.Debug("Page %d: %s -> %s", index, a.state, next)
	a.state = next
}

// finish assembles the accepted pages and publishes the outputs
func (a *Archiver) finish(ctx context.Context) (*types.SessionResult, error) {
	var pdfs, texts []string
	rejected := 0
	for _, page := range a.pages {
		if !page.Accepted {
			rejected++
			continue
		}
		pdfs = append(pdfs, page.PDFPath)
		if page.TextPath != "" {
			texts = append(texts, page.TextPath)
		}
	}

	assembled := a.workspace.GetPath(a.opts.BaseName + constants.PDFExtension)
	a.workspace.Track(assembled)
	if err := a.assembler.Assemble(ctx, pdfs, assembled); err != nil {
		return nil, err
	}

	if a.opts.Policy == types.OCRPolicyDeferred {
		if err := a.tools.DocumentOCR.OCRDocument(ctx, assembled, a.opts.Language); err != nil {
			return nil, err
		}
	}

	var transcript string
	if a.opts.WantsTranscript() && len(texts) > 0 {
		transcript = a.workspace.GetPath(a.opts.BaseName + constants.TranscriptSuffix + constants.TextExtension)
		a.workspace.Track(transcript)
		a.logger.ProgressAlways("📝", "Start merging text files")
		if err := document.MergeTranscripts(texts, transcript); err != nil {
			return nil, err
		}
		a.logger.ProgressAlways("✅", "Finished merging text files")
	}

	result := &types.SessionResult{
		AcceptedPages: len(pdfs),
		RejectedPages: rejected,
		Policy:        a.opts.Policy,
	}

	if err := utils.EnsureDir(a.opts.OutputDir); err != nil {
		return nil, utils.NewIOError("failed to create output directory", err).WithContext("path", a.opts.OutputDir)
	}
	result.OutputPDF = filepath.Join(a.opts.OutputDir, a.opts.BaseName+constants.PDFExtension)
	if err := utils.CopyFile(assembled, result.OutputPDF); err != nil {
		return nil, err
	}
	if transcript != "" {
		result.OutputText = filepath.Join(a.opts.OutputDir, filepath.Base(transcript))
		if err := utils.CopyFile(transcript, result.OutputText); err != nil {
			return nil, err
		}
	}

	a.logger.ProgressAlways("📦", "Merging finished")
	return result, nil
}
