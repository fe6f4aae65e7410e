// Package metadata collects the file information shown in the listing header.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/retroenv/classdisasm/internal/classfile"
)

// DateLayout is the layout of the last modified date.
const DateLayout = "02 Jan 2006"

// Collect returns the metadata of the file at path, data is its content.
func Collect(path string, data []byte) (classfile.Metadata, error) {
	canonical, err := CanonicalPath(path)
	if err != nil {
		return classfile.Metadata{}, err
	}

	info, err := stat(canonical)
	if err != nil {
		return classfile.Metadata{}, fmt.Errorf("getting file info: %w", err)
	}

	return classfile.Metadata{
		Path:         canonical,
		Size:         info.size,
		Hash:         Checksum(data),
		LastModified: FormatDate(info.modified),
	}, nil
}

// CanonicalPath returns the absolute path with all symbolic links resolved.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	return resolved, nil
}

// Checksum returns the hex encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FormatDate formats t in local time.
func FormatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

type fileInfo struct {
	size     int64
	modified time.Time
}
