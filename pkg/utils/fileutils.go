package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nodewee/scan-archiver/pkg/constants"
)

var unsafeNameChars = regexp.MustCompile(`[/\\\x00]`)

const maxFileNameBytes = 200

// NormalizePath standardizes file paths
func NormalizePath(path string) string {
	return filepath.Clean(path)
}

// EnsureDir creates directory if it doesn't exist
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	return os.MkdirAll(dirPath, constants.DefaultDirPermission)
}

// SanitizeFileName cleans a session base name so it can't escape its directory
func SanitizeFileName(filename string) string {
	filename = unsafeNameChars.ReplaceAllString(filename, "_")
	filename = strings.TrimSpace(filename)
	if len(filename) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(filename[cut]) {
			cut--
		}
		filename = filename[:cut]
	}
	return filename
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RequireNonEmptyFile returns an error unless path is a non-empty regular file
func RequireNonEmptyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return NewError(ErrorTypeNotFound, fmt.Sprintf("expected output %s", path), ErrMissingToolOutput).
			WithContext("path", path)
	}
	if !info.Mode().IsRegular() || info.Size() == 0 {
		return NewError(ErrorTypeIO, fmt.Sprintf("output %s is empty", path), ErrMissingToolOutput).
			WithContext("path", path)
	}
	return nil
}

// CopyFile copies src to dst, replacing dst if it exists
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return NewIOError("failed to open source file", err).WithContext("path", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermission)
	if err != nil {
		return NewIOError("failed to create destination file", err).WithContext("path", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = NewIOError("failed to close destination file", cerr).WithContext("path", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return NewIOError("failed to copy file", err).WithContext("path", dst)
	}
	return nil
}
