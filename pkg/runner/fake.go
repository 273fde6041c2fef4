package runner

import (
	"context"
	"os"
	"sync"

	"github.com/nodewee/scan-archiver/pkg/constants"
)

// Handler decides the outcome of a fake invocation
type Handler func(inv Invocation) (*Result, error)

// FakeRunner records invocations instead of running them. Tests register a
// Handler per tool name; unregistered tools succeed with empty output.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Invocation
}

// NewFakeRunner creates an empty fake
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: make(map[string]Handler)}
}

// Handle registers h for every invocation of tool
func (f *FakeRunner) Handle(tool string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[tool] = h
}

// Run records inv and dispatches it
func (f *FakeRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, inv)
	h := f.handlers[inv.Name]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if h == nil {
		if inv.StdoutPath != "" {
			if err := os.WriteFile(inv.StdoutPath, []byte(inv.Name), constants.DefaultFilePermission); err != nil {
				return nil, err
			}
		}
		return &Result{}, nil
	}
	return h(inv)
}

// Calls returns every recorded invocation
func (f *FakeRunner) Calls() []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Invocation, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsTo returns the recorded invocations of tool
func (f *FakeRunner) CallsTo(tool string) []Invocation {
	var out []Invocation
	for _, c := range f.Calls() {
		if c.Name == tool {
			out = append(out, c)
		}
	}
	return out
}

// Fail returns a handler that always exits with code
func Fail(code int) Handler {
	return func(inv Invocation) (*Result, error) {
		return &Result{ExitCode: code}, &ToolError{Tool: inv.Name, ExitCode: code}
	}
}

// Stdout returns a handler that succeeds and prints out
func Stdout(out string) Handler {
	return func(inv Invocation) (*Result, error) {
		return &Result{Stdout: []byte(out)}, nil
	}
}
