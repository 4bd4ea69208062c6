package lockfile

import (
	"errors"
	"io/fs"
	"os"

	"github.com/google/uuid"

	"github.com/mrz1836/multipid/internal/constants"
	mperrors "github.com/mrz1836/multipid/internal/errors"
)

// ReadState returns the content of a state file. A missing file reads as
// empty content, not as an error.
func ReadState(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path supplied by caller
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, mperrors.Storagef(err, "failed to read %s", path)
	}
	return data, nil
}

// AtomicWrite replaces path with data using write-then-rename, so a reader
// sees either the old content or the new content and never a prefix.
// The temporary sibling carries a random suffix so a leftover from a
// crashed writer is never reused.
func AtomicWrite(path string, data []byte) error {
	tmpPath := path + constants.TempSuffix + uuid.NewString()
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.StateFilePerm) //#nosec G302,G304 -- state file is shared between processes
	if err != nil {
		return mperrors.Storage(err, "failed to create temp file")
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return mperrors.Storage(err, "failed to write data")
	}

	// Sync before rename so the new name never points at unwritten blocks.
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return mperrors.Storage(err, "failed to sync file")
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return mperrors.Storage(err, "failed to close file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return mperrors.Storage(err, "failed to rename file")
	}

	return nil
}

// Remove deletes path, treating an already missing file as success.
func Remove(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return mperrors.Storagef(err, "failed to remove %s", path)
}
