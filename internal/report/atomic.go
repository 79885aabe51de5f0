package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	tmpPattern = ".releasereport-*.tmp"
	fileMode   = 0o644
)

// WriteFileAtomic renders into a temporary file beside path and renames it
// into place. On any failure the temporary file is removed and path is left
// untouched.
func WriteFileAtomic(path string, render func(w io.Writer) error) (err error) {
	fd, err := os.CreateTemp(filepath.Dir(path), tmpPattern)
	if err != nil {
		return fmt.Errorf("atomic write create: %w", err)
	}

	tmpPath := fd.Name()

	defer func() {
		if err != nil {
			err = errors.Join(err, removeIfExists(tmpPath))
		}
	}()

	chmodErr := fd.Chmod(fileMode)
	if chmodErr != nil {
		fd.Close()

		return fmt.Errorf("atomic write chmod: %w", chmodErr)
	}

	renderErr := render(fd)
	if renderErr != nil {
		fd.Close()

		return renderErr
	}

	syncErr := fd.Sync()
	if syncErr != nil {
		fd.Close()

		return fmt.Errorf("atomic write sync: %w", syncErr)
	}

	closeErr := fd.Close()
	if closeErr != nil {
		return fmt.Errorf("atomic write close: %w", closeErr)
	}

	renameErr := os.Rename(tmpPath, path)
	if renameErr != nil {
		return fmt.Errorf("atomic write rename: %w", renameErr)
	}

	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("atomic write cleanup: %w", err)
	}

	return nil
}
