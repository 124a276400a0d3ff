// Package fragment implements the idempotent config-fragment writer: a block
// of text is appended to a target file only when its marker substring is not
// already present anywhere in the file.
package fragment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"provision-mac/internal/logger"
)

// Result reports what Ensure did.
type Result string

const (
	// Applied means the content was appended (or the file created).
	Applied Result = "applied"
	// AlreadyPresent means the marker was found and the file was not touched.
	AlreadyPresent Result = "already-present"
)

// Ensure makes sure targetFile contains the fragment. An absent file is
// treated as empty and created with mode 0644 (parent directories included)
// holding exactly content. When the marker is found anywhere in the existing
// bytes the file is left byte-for-byte untouched. The check and the append
// happen in one call, so applying the same fragment twice in a run cannot
// duplicate it. Single-threaded by contract.
func Ensure(targetFile, marker, content string) (Result, error) {
	data, err := os.ReadFile(targetFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", targetFile, err)
	}

	if marker != "" && bytes.Contains(data, []byte(marker)) {
		logger.Debug("[DEBUG] Marker %q already present in %s\n", marker, targetFile)
		return AlreadyPresent, nil
	}

	if err := os.MkdirAll(filepath.Dir(targetFile), 0755); err != nil {
		return "", fmt.Errorf("create parent directory for %s: %w", targetFile, err)
	}

	f, err := os.OpenFile(targetFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open %s for append: %w", targetFile, err)
	}
	defer f.Close()

	// Keep the appended block on its own lines when the file has content
	// that does not end in a newline.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return "", fmt.Errorf("append to %s: %w", targetFile, err)
		}
	}
	if _, err := f.WriteString(content); err != nil {
		return "", fmt.Errorf("append to %s: %w", targetFile, err)
	}

	return Applied, nil
}

// Backup copies path to a timestamped sibling before a structural change,
// e.g. the shell RC file before the shell framework rewrites it. A missing
// source returns ("", nil): there is nothing to preserve. Callers treat any
// error as a warning, never as fatal.
func Backup(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("open %s for backup: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
	dst, err := os.OpenFile(backupPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode())
	if err != nil {
		return "", fmt.Errorf("create backup %s: %w", backupPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}
