package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

type fixedCounter int

func (c fixedCounter) PageCount(string) (int, error) {
	return int(c), nil
}

// fakePdfunite writes the last argument so the output check passes
func fakePdfunite(inv runner.Invocation) (*runner.Result, error) {
	out := inv.Args[len(inv.Args)-1]
	if err := os.WriteFile(out, []byte("merged"), 0644); err != nil {
		return nil, err
	}
	return &runner.Result{}, nil
}

func writePages(t *testing.T, dir string, n int) []string {
	t.Helper()
	var paths []string
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, "doc_"+string(rune('0'+i))+".pdf")
		if err := os.WriteFile(p, []byte("page "+string(rune('0'+i))), 0644); err != nil {
			t.Fatalf("failed to write page: %v", err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestAssembleNoPages(t *testing.T) {
	fake := runner.NewFakeRunner()
	a := NewAssembler(NewPdfuniteMerger(fake, logger.Discard(), "pdfunite"), nil, logger.Discard())

	out := filepath.Join(t.TempDir(), "doc.pdf")
	err := a.Assemble(context.Background(), nil, out)
	if !errors.Is(err, utils.ErrNoPagesAccepted) {
		t.Fatalf("expected ErrNoPagesAccepted, got %v", err)
	}
	if utils.FileExists(out) {
		t.Error("output written for an empty document")
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("expected no tool calls, got %v", fake.Calls())
	}
}

func TestAssembleSinglePageCopies(t *testing.T) {
	dir := t.TempDir()
	pages := writePages(t, dir, 1)
	fake := runner.NewFakeRunner()
	a := NewAssembler(NewPdfuniteMerger(fake, logger.Discard(), "pdfunite"), fixedCounter(1), logger.Discard())

	out := filepath.Join(dir, "doc.pdf")
	if err := a.Assemble(context.Background(), pages, out); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	got, _ := os.ReadFile(out)
	if string(got) != "page 0" {
		t.Errorf("expected byte copy of the page, got %q", got)
	}
	if len(fake.CallsTo("pdfunite")) != 0 {
		t.Error("pdfunite must not run for a single page")
	}
}

func TestAssembleMergesInOrder(t *testing.T) {
	dir := t.TempDir()
	pages := writePages(t, dir, 3)
	fake := runner.NewFakeRunner()
	fake.Handle("pdfunite", fakePdfunite)
	a := NewAssembler(NewPdfuniteMerger(fake, logger.Discard(), "pdfunite"), fixedCounter(3), logger.Discard())

	out := filepath.Join(dir, "doc.pdf")
	if err := a.Assemble(context.Background(), pages, out); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	calls := fake.CallsTo("pdfunite")
	if len(calls) != 1 {
		t.Fatalf("expected one pdfunite call, got %d", len(calls))
	}
	want := append(append([]string{}, pages...), out)
	if !reflect.DeepEqual(calls[0].Args, want) {
		t.Errorf("expected args %v, got %v", want, calls[0].Args)
	}
}

func TestAssemblePageCountMismatch(t *testing.T) {
	dir := t.TempDir()
	pages := writePages(t, dir, 2)
	fake := runner.NewFakeRunner()
	fake.Handle("pdfunite", fakePdfunite)
	a := NewAssembler(NewPdfuniteMerger(fake, logger.Discard(), "pdfunite"), fixedCounter(1), logger.Discard())

	err := a.Assemble(context.Background(), pages, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, utils.ErrPageCountMismatch) {
		t.Fatalf("expected ErrPageCountMismatch, got %v", err)
	}
}

func TestAssembleMergeFailure(t *testing.T) {
	dir := t.TempDir()
	pages := writePages(t, dir, 2)
	fake := runner.NewFakeRunner()
	fake.Handle("pdfunite", runner.Fail(1))
	a := NewAssembler(NewPdfuniteMerger(fake, logger.Discard(), "pdfunite"), nil, logger.Discard())

	err := a.Assemble(context.Background(), pages, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, utils.ErrToolFailed) {
		t.Fatalf("expected ErrToolFailed, got %v", err)
	}
	if utils.GetErrorType(err) != utils.ErrorTypeMerge {
		t.Errorf("expected merge error, got %s", utils.GetErrorType(err))
	}
}

func TestAssembleMissingPage(t *testing.T) {
	dir := t.TempDir()
	a := NewAssembler(NewPdfuniteMerger(runner.NewFakeRunner(), logger.Discard(), "pdfunite"), nil, logger.Discard())

	err := a.Assemble(context.Background(), []string{filepath.Join(dir, "gone.pdf")}, filepath.Join(dir, "doc.pdf"))
	if !errors.Is(err, utils.ErrMissingToolOutput) {
		t.Fatalf("expected ErrMissingToolOutput, got %v", err)
	}
}

func TestMergeTranscriptsKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, text := range []string{"first\n", "second\n", "third\n"} {
		p := filepath.Join(dir, "doc_"+string(rune('0'+i))+".txt")
		if err := os.WriteFile(p, []byte(text), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	out := filepath.Join(dir, "doc_ocr.txt")
	if err := MergeTranscripts(paths, out); err != nil {
		t.Fatalf("MergeTranscripts failed: %v", err)
	}

	got, _ := os.ReadFile(out)
	if string(got) != "first\nsecond\nthird\n" {
		t.Errorf("unexpected transcript %q", got)
	}
}

func TestMergeTranscriptsMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := MergeTranscripts([]string{filepath.Join(dir, "nope.txt")}, filepath.Join(dir, "out.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing transcript")
	}
	if utils.GetErrorType(err) != utils.ErrorTypeIO {
		t.Errorf("expected io error, got %s", utils.GetErrorType(err))
	}
}

func TestMergerNames(t *testing.T) {
	if got := NewPdfuniteMerger(nil, logger.Discard(), "/usr/bin/pdfunite").Name(); got != "pdfunite" {
		t.Errorf("expected pdfunite, got %s", got)
	}
	if got := NewPdfcpuMerger(logger.Discard()).Name(); got != "pdfcpu" {
		t.Errorf("expected pdfcpu, got %s", got)
	}
}

// minimalPDF returns a valid single page PDF with a correct xref table
func minimalPDF() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPdfcpuAssemblesRealPages(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	dir := t.TempDir()
	var pages []string
	for i := 0; i < 3; i++ {
		p := filepath.Join(dir, fmt.Sprintf("doc_%d.pdf", i))
		if err := os.WriteFile(p, minimalPDF(), 0644); err != nil {
			t.Fatal(err)
		}
		pages = append(pages, p)
	}

	counter := PdfcpuPageCounter{}
	for _, p := range pages {
		if n, err := counter.PageCount(p); err != nil || n != 1 {
			t.Fatalf("expected 1 page in %s, got %d (%v)", p, n, err)
		}
	}

	out := filepath.Join(dir, "doc.pdf")
	a := NewAssembler(NewPdfcpuMerger(logger.Discard()), counter, logger.Discard())
	if err := a.Assemble(context.Background(), pages, out); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	n, err := counter.PageCount(out)
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 pages, got %d", n)
	}

	if _, err := os.Stat(filepath.Join(home, ".config", "pdfcpu")); !os.IsNotExist(err) {
		t.Errorf("pdfcpu config directory was created under %s", home)
	}
}

func TestPdfcpuPageCountRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(p, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := PdfcpuPageCounter{}.PageCount(p)
	if utils.GetErrorType(err) != utils.ErrorTypeMerge {
		t.Errorf("expected merge error, got %v", err)
	}
}
