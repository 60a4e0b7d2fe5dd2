package book

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"bookhub/pkg/ident"
)

const (
	MaxCoverSize = 5 * 1024 * 1024
	MaxEbookSize = 50 * 1024 * 1024
)

var coverExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
var ebookExts = map[string]bool{".epub": true, ".pdf": true, ".mobi": true}

// ValidateCoverImage checks size and extension of an uploaded cover.
func ValidateCoverImage(filename string, size int64) error {
	if size > MaxCoverSize {
		return fmt.Errorf("cover image exceeds the 5MB limit")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !coverExts[ext] {
		return fmt.Errorf("cover image must be jpg, jpeg, png or webp")
	}
	return nil
}

// ValidateEbookFile checks size and extension of an uploaded ebook.
// The extension is authoritative: browsers routinely report epub/mobi
// as application/octet-stream, so a declared MIME type never overrides
// an allowed extension, and never rescues a disallowed one.
func ValidateEbookFile(filename string, size int64, declaredMIME string) error {
	if size > MaxEbookSize {
		return fmt.Errorf("ebook file exceeds the 50MB limit")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !ebookExts[ext] {
		return fmt.Errorf("ebook file must be epub, pdf or mobi (got %q, reported type %q)", ext, declaredMIME)
	}
	return nil
}

// SaveUpload writes a multipart file under dir with a fresh name and
// returns the public URL path.
func SaveUpload(fh *multipart.FileHeader, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := ident.New(prefix) + strings.ToLower(filepath.Ext(fh.Filename))
	dst := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return "/uploads/" + name, nil
}
