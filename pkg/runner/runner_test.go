package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerRedirectsStdout(t *testing.T) {
	requireShell(t)
	out := filepath.Join(t.TempDir(), "page.tiff")

	r := NewExecRunner(logger.Discard(), 0)
	_, err := r.Run(context.Background(), Invocation{
		Name:       "sh",
		Args:       []string{"-c", "printf scanned"},
		StdoutPath: out,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "scanned" {
		t.Errorf("expected redirected output, got %q", data)
	}
}

func TestExecRunnerReportsExitStatus(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(logger.Discard(), 0)

	res, err := r.Run(context.Background(), Invocation{
		Name: "sh",
		Args: []string{"-c", "echo jammed >&2; exit 7"},
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, utils.ErrToolFailed) {
		t.Errorf("expected ErrToolFailed in chain, got %v", err)
	}
	if ExitCodeOf(err) != 7 || res.ExitCode != 7 {
		t.Errorf("expected exit status 7, got %d / %d", ExitCodeOf(err), res.ExitCode)
	}
	if !strings.Contains(err.Error(), "jammed") {
		t.Errorf("expected stderr in message, got %q", err.Error())
	}
}

func TestExecRunnerMissingTool(t *testing.T) {
	r := NewExecRunner(logger.Discard(), 0)
	_, err := r.Run(context.Background(), Invocation{Name: "definitely-not-a-scanner-tool"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if ExitCodeOf(err) != -1 {
		t.Errorf("expected -1 for a tool that never started, got %d", ExitCodeOf(err))
	}
}

func TestExecRunnerEchoesInVerboseMode(t *testing.T) {
	requireShell(t)
	var buf bytes.Buffer
	r := NewExecRunner(logger.NewLoggerWithWriter("info", true, &buf), 0)

	if _, err := r.Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "true"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "$ sh -c true") {
		t.Errorf("expected command echo, got %q", buf.String())
	}
}

func TestExecRunnerEchoIncludesRedirect(t *testing.T) {
	requireShell(t)
	var buf bytes.Buffer
	out := filepath.Join(t.TempDir(), "page.tiff")
	r := NewExecRunner(logger.NewLoggerWithWriter("info", true, &buf), 0)

	inv := Invocation{Name: "sh", Args: []string{"-c", "echo scan"}, StdoutPath: out}
	if _, err := r.Run(context.Background(), inv); err != nil {
		t.Fatal(err)
	}
	want := "$ sh -c 'echo scan' > " + out + "\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Name: "scanimage", Args: []string{"--mode", "Gray"}, StdoutPath: "/tmp/a_0.tiff"}
	if got := inv.String(); got != "scanimage --mode Gray > /tmp/a_0.tiff" {
		t.Errorf("unexpected rendering %q", got)
	}
}
