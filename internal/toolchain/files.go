package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Files locates and reads artifacts written by a tool run.
type Files interface {
	// ReadIfExists returns the file content and true, or false when the file
	// does not exist.
	ReadIfExists(path string) ([]byte, bool, error)
}

// OSFiles reads from the host filesystem.
type OSFiles struct{}

func (OSFiles) ReadIfExists(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, true, nil
}
