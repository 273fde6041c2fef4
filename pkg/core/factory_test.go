package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/nodewee/scan-archiver/pkg/config"
	"github.com/nodewee/scan-archiver/pkg/logger"
	"github.com/nodewee/scan-archiver/pkg/runner"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

func lookPathOf(available ...string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, true
			}
		}
		return "", false
	}
}

func TestCreateToolchainSelectsMerger(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{"pdfunite installed", []string{"pdfunite"}, "pdfunite"},
		{"pdfunite missing", nil, "pdfcpu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewToolchainFactory(config.NewConfig(), logger.Discard(), runner.NewFakeRunner()).
				WithLookPath(lookPathOf(tt.available...)).
				CreateToolchain()
			if tc.Merger.Name() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tc.Merger.Name())
			}
		})
	}
}

func TestCreateToolchainPageCounter(t *testing.T) {
	cfg := config.NewConfig()
	f := NewToolchainFactory(cfg, logger.Discard(), runner.NewFakeRunner()).WithLookPath(lookPathOf())

	if f.CreateToolchain().Counter == nil {
		t.Error("expected a page counter by default")
	}
	cfg.VerifyPageCount = false
	if f.CreateToolchain().Counter != nil {
		t.Error("expected no page counter when verification is off")
	}
}

func TestCheckTools(t *testing.T) {
	tests := []struct {
		name      string
		policy    types.OCRPolicy
		available []string
		missing   string
	}{
		{"direct complete", types.OCRPolicyDirect, []string{"scanimage", "convert", "tesseract"}, ""},
		{"direct without tesseract", types.OCRPolicyDirect, []string{"scanimage", "convert"}, "tesseract"},
		{"deferred needs pdfsandwich", types.OCRPolicyDeferred, []string{"scanimage", "convert", "tesseract"}, "pdfsandwich"},
		{"disabled needs no OCR tool", types.OCRPolicyDisabled, []string{"scanimage", "convert"}, ""},
		{"no scanner", types.OCRPolicyDisabled, []string{"convert"}, "scanimage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewToolchainFactory(config.NewConfig(), logger.Discard(), runner.NewFakeRunner()).
				WithLookPath(lookPathOf(tt.available...))
			err := f.CheckTools(tt.policy)
			if tt.missing == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var appErr *utils.AppError
			if !errors.As(err, &appErr) || appErr.Type != utils.ErrorTypeNotFound {
				t.Fatalf("expected not found error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("expected %s in %v", tt.missing, err)
			}
		})
	}
}
