package intake

import (
	"fmt"
	"os"
	"path/filepath"
)

// Mover relocates source files to their terminal directories using
// rename, which is atomic within one filesystem: the watch directory
// never observes a partially moved file.
type Mover struct {
	processedDir string
	errorDir     string
}

// NewMover creates a Mover and ensures both destination directories
// exist.
func NewMover(processedDir, errorDir string) (*Mover, error) {
	for _, dir := range []string{processedDir, errorDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return &Mover{processedDir: processedDir, errorDir: errorDir}, nil
}

// ToProcessed moves a successfully processed file
func (m *Mover) ToProcessed(path string) error {
	return m.move(path, m.processedDir)
}

// ToError moves a failed file
func (m *Mover) ToError(path string) error {
	return m.move(path, m.errorDir)
}

func (m *Mover) move(path, destDir string) error {
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("moving %s to %s: %w", path, destDir, err)
	}
	return nil
}
