package policy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Sink persists one canonical record per successful document.
type Sink interface {
	// Append writes the record as one row, creating the header first
	// if the store is new.
	Append(rec *CanonicalRecord) error
}

// CSVSink appends records to a single CSV file shared by all workers.
// The mutex serializes the header-once check and the row append so
// concurrent documents never interleave output.
type CSVSink struct {
	path string
	mu   sync.Mutex
}

// NewCSVSink creates a sink writing to the given file path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Append writes one row in canonical column order.
func (s *CSVSink) Append(rec *CanonicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	writeHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening csv database: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Fields); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
