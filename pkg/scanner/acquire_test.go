package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

func TestAcquireSucceedsOnFirstAttempt(t *testing.T) {
	fake := runner.NewFakeRunner()
	out := filepath.Join(t.TempDir(), "doc_0.tiff")

	a := NewAcquirer(fake, logger.Discard(), "scanimage")
	if err := a.Acquire(context.Background(), "dev:1", types.ColorModeGray, 600, out); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	calls := fake.CallsTo("scanimage")
	if len(calls) != 1 {
		t.Fatalf("expected exactly one scan, got %d", len(calls))
	}
	if calls[0].StdoutPath != out {
		t.Errorf("expected output redirected to %s, got %s", out, calls[0].StdoutPath)
	}
	want := []string{"--device", "dev:1", "-x", "215", "-y", "296.9", "--resolution", "600", "--mode", "Gray", "--format=tiff"}
	if !reflect.DeepEqual(calls[0].Args, want) {
		t.Errorf("unexpected args %v", calls[0].Args)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected scan output: %v", err)
	}
}

func TestAcquireRetriesThenSucceeds(t *testing.T) {
	fake := runner.NewFakeRunner()
	attempt := 0
	fake.Handle("scanimage", func(inv runner.Invocation) (*runner.Result, error) {
		attempt++
		if attempt < 3 {
			return runner.Fail(9)(inv)
		}
		return &runner.Result{}, os.WriteFile(inv.StdoutPath, []byte("tiff"), 0644)
	})

	a := NewAcquirer(fake, logger.Discard(), "scanimage")
	err := a.Acquire(context.Background(), "dev:1", types.ColorModeColor, 300, filepath.Join(t.TempDir(), "p.tiff"))
	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if n := len(fake.CallsTo("scanimage")); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestAcquireGivesUpAfterThreeAttempts(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.Handle("scanimage", runner.Fail(1))

	a := NewAcquirer(fake, logger.Discard(), "scanimage")
	err := a.Acquire(context.Background(), "dev:1", types.ColorModeGray, 600, filepath.Join(t.TempDir(), "p.tiff"))

	if !errors.Is(err, utils.ErrScanExhausted) {
		t.Fatalf("expected ErrScanExhausted, got %v", err)
	}
	if n := len(fake.CallsTo("scanimage")); n != 3 {
		t.Errorf("expected at most 3 attempts, got %d", n)
	}
	if v, _ := utils.ContextValue(err, "attempts"); v != 3 {
		t.Errorf("expected attempts=3 in error, got %v", v)
	}
}
