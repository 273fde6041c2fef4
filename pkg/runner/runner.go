package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// Invocation describes one external command
type Invocation struct {
	Name string
	Args []string
	// StdoutPath, when set, receives the command's standard output (scanimage > page.tiff)
	StdoutPath string
}

// String renders the invocation the way the verbose echo shows it
func (inv Invocation) String() string {
	s := logger.FormatCommand(inv.Name, inv.Args)
	if inv.StdoutPath != "" {
		s += " > " + inv.StdoutPath
	}
	return s
}

// Result carries what a finished command produced
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner executes external tools
type CommandRunner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}

// ToolError is returned when a command could not start or exited non-zero
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s could not be started: %v", e.Tool, e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap exposes both the tool sentinel and the underlying exec error
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{utils.ErrToolFailed}
	}
	return []error{utils.ErrToolFailed, e.Err}
}

// ExitCodeOf returns the exit status carried by err, or -1
func ExitCodeOf(err error) int {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode
	}
	return -1
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger  *logger.Logger
	timeout time.Duration
}

// NewExecRunner creates a runner; a zero timeout means tools may run forever
func NewExecRunner(log *logger.Logger, timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		logger:  log,
		timeout: timeout,
	}
}

// Run executes inv, echoing it first in verbose mode
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Echo(inv.String())

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stderr = &stderr

	if inv.StdoutPath != "" {
		f, err := os.OpenFile(inv.StdoutPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermission)
		if err != nil {
			return nil, utils.NewIOError("failed to create command output file", err).
				WithContext("path", inv.StdoutPath)
		}
		defer f.Close()
		cmd.Stdout = f
	} else {
		cmd.Stdout = &stdout
	}

	err := cmd.Run()
	result := &Result{
		ExitCode: 0,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, utils.NewError(utils.ErrorTypeTimeout, fmt.Sprintf("%s interrupted", inv.Name), ctxErr)
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	result.ExitCode = exitCode
	r.logger.Debug("%s failed: %v", inv.Name, err)

	return result, &ToolError{
		Tool:     inv.Name,
		ExitCode: exitCode,
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// LookPath resolves a configured tool path, the way the config layer detects tools
func LookPath(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", false
	}
	return resolved, true
}
