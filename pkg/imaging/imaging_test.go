package imaging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// writeLastArg emulates convert writing its final argument
func writeLastArg(inv runner.Invocation) (*runner.Result, error) {
	out := inv.Args[len(inv.Args)-1]
	return &runner.Result{}, os.WriteFile(out, []byte("converted"), 0644)
}

func TestRotateZeroIsIdentity(t *testing.T) {
	fake := runner.NewFakeRunner()
	m := NewMagick(fake, logger.Discard(), "convert")

	got, err := m.Rotate(context.Background(), "/scans/a_0.tiff", 0, "/scans/a_0_rot.tiff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/scans/a_0.tiff" {
		t.Errorf("expected input path back, got %s", got)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no convert call for 0 degrees")
	}
}

func TestRotateInvokesConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a_0.tiff")
	out := filepath.Join(dir, "a_0_rot.tiff")

	fake := runner.NewFakeRunner()
	fake.Handle("convert", writeLastArg)
	m := NewMagick(fake, logger.Discard(), "convert")

	got, err := m.Rotate(context.Background(), in, 90.5, out)
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	if got != out {
		t.Errorf("expected %s, got %s", out, got)
	}
	want := []string{"-rotate", "90.5", in, out}
	if args := fake.CallsTo("convert")[0].Args; !reflect.DeepEqual(args, want) {
		t.Errorf("expected args %v, got %v", want, args)
	}
}

func TestRotateFailureIsReported(t *testing.T) {
	fake := runner.NewFakeRunner()
	fake.Handle("convert", runner.Fail(1))
	m := NewMagick(fake, logger.Discard(), "convert")

	_, err := m.Rotate(context.Background(), "in.tiff", 180, filepath.Join(t.TempDir(), "out.tiff"))
	if !errors.Is(err, utils.ErrToolFailed) {
		t.Fatalf("expected tool failure, got %v", err)
	}
	if utils.GetErrorType(err) != utils.ErrorTypeConversion {
		t.Errorf("expected conversion error type, got %s", utils.GetErrorType(err))
	}
}

func TestConvertToPDFRequiresOutput(t *testing.T) {
	fake := runner.NewFakeRunner()
	m := NewMagick(fake, logger.Discard(), "convert")

	// The default fake handler succeeds but writes nothing
	err := m.ConvertToPDF(context.Background(), "in.tiff", filepath.Join(t.TempDir(), "out.pdf"))
	if !errors.Is(err, utils.ErrMissingToolOutput) {
		t.Fatalf("expected missing output error, got %v", err)
	}
	if utils.GetErrorType(err) != utils.ErrorTypeConversion {
		t.Errorf("expected conversion error type, got %s", utils.GetErrorType(err))
	}
}

func TestFormatDegrees(t *testing.T) {
	tests := map[float64]string{90: "90", -90: "-90", 0.5: "0.5", 270.25: "270.25"}
	for in, want := range tests {
		if got := FormatDegrees(in); got != want {
			t.Errorf("FormatDegrees(%v) = %s, want %s", in, got, want)
		}
	}
}
