package intake

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jeifler/policy-intake/internal/policy"
)

// Processor runs the pipeline over one document
type Processor interface {
	Process(path string) (*policy.Outcome, error)
}

// Pool is a bounded work queue feeding a fixed set of workers. Each
// document is processed by exactly one worker; per-document work has no
// internal blocking, so no cancellation is threaded through.
type Pool struct {
	jobs chan string
	wg   sync.WaitGroup
}

// StartPool launches the workers. Close drains the queue and joins
// them.
func StartPool(workers, queueSize int, proc Processor) *Pool {
	p := &Pool{jobs: make(chan string, queueSize)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for path := range p.jobs {
				// The filesystem is ground truth: a file already moved
				// to a terminal location is not reprocessed.
				if _, err := os.Stat(path); err != nil {
					slog.Debug("file no longer present, skipping", "file", path)
					continue
				}
				if _, err := proc.Process(path); err != nil {
					slog.Error("processing failed, file left in place", "file", path, "error", err)
				}
			}
		}()
	}
	return p
}

// Submit enqueues one file for processing. It blocks while the queue is
// full.
func (p *Pool) Submit(path string) {
	p.jobs <- path
}

// Close stops intake, waits for queued documents to finish and joins
// the workers.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
