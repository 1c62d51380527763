// Package files holds the attachment helpers: copying picked files
// into app-private storage and resolving display metadata.
package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CopyIn copies the file at srcPath into destDir under a timestamped
// name and returns the destination path. The source is left untouched.
func CopyIn(srcPath, destDir string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create attachments dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), filepath.Base(srcPath))
	destPath := filepath.Join(destDir, name)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("copy attachment: %w", err)
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("flush attachment: %w", err)
	}

	return destPath, nil
}

// MIMEType maps a file name's extension to a content type, with a
// generic binary fallback for anything unknown.
func MIMEType(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "pdf":
		return "application/pdf"
	case "txt":
		return "text/plain"
	case "doc":
		return "application/msword"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "xls":
		return "application/vnd.ms-excel"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// DisplayName derives a human-readable file name from an attachment
// locator: the last path segment with any query string stripped.
func DisplayName(uri string) string {
	trimmed := strings.TrimSpace(uri)
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	if trimmed == "" {
		return "file"
	}
	return trimmed
}
