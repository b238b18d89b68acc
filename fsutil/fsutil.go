// Package fsutil holds the filesystem collaborators of the extraction
// pipeline: the pre-flight readability check and the output writer.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/tabchunk/textenc"
)

// ErrNotRegularFile is returned by ValidateReadable for directories and
// other non-regular files.
var ErrNotRegularFile = errors.New("not a regular file")

// ValidateReadable fails fast if path does not exist, is not a regular file,
// or cannot be opened for reading. Errors wrap fs.ErrNotExist,
// fs.ErrPermission or ErrNotRegularFile.
func ValidateReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("access denied to file: %w", err)
	}
	return f.Close()
}

// Save writes content to path in the labelled character encoding, creating
// parent directories as needed. The text is encoded in full before the file
// is touched, so an encoding failure leaves no partial output.
func Save(path, content, encoding string) error {
	data, err := textenc.Encode(content, encoding)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
