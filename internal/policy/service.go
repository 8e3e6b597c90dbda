package policy

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jeifler/policy-intake/internal/extraction"
)

// Relocator moves a source file to its terminal location. Both moves
// must be atomic so the watch directory never sees a half-moved file.
type Relocator interface {
	// ToProcessed moves a successfully processed file
	ToProcessed(path string) error

	// ToError moves a failed file
	ToError(path string) error
}

// IDGenerator generates unique IDs for archived outcomes
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the per-document pipeline: text acquisition,
// classification, extraction, normalization, assembly, validation and
// the terminal sink/relocation step.
type Service struct {
	extractor   extraction.TextExtractor
	classifier  *Classifier
	rules       Rules
	policy      ValidationPolicy
	sink        Sink
	db          DB
	relocator   Relocator
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor extraction.TextExtractor, classifier *Classifier, rules Rules, policy ValidationPolicy, sink Sink, db DB, relocator Relocator) *Service {
	return &Service{
		extractor:   extractor,
		classifier:  classifier,
		rules:       rules,
		policy:      policy,
		sink:        sink,
		db:          db,
		relocator:   relocator,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor extraction.TextExtractor, classifier *Classifier, rules Rules, policy ValidationPolicy, sink Sink, db DB, relocator Relocator, idGen IDGenerator, timeSrc TimeSource) *Service {
	s := NewService(extractor, classifier, rules, policy, sink, db, relocator)
	s.idGenerator = idGen
	s.timeSource = timeSrc
	return s
}

// Process runs one document through the pipeline and places the source
// file at its terminal location. A non-nil error means an I/O problem
// (sink or relocation) left the file where it was; the outcome is still
// returned so callers can see how far the document got.
func (s *Service) Process(path string) (*Outcome, error) {
	filename := filepath.Base(path)

	text, err := s.extractor.ExtractText(path)
	if err != nil {
		slog.Error("no extractable text", "file", filename, "error", err)
		out := &Outcome{Status: StatusFailure, Company: CompanyUnknown, Reason: "unreadable document"}
		return out, s.finishFailure(path, filename, out)
	}

	company := s.classifier.Classify(text)
	if company == CompanyUnknown {
		slog.Error("unrecognized template", "file", filename)
		out := &Outcome{Status: StatusFailure, Company: CompanyUnknown, Reason: "unrecognized template"}
		return out, s.finishFailure(path, filename, out)
	}
	slog.Info("processing document", "file", filename, "company", company)

	rules := s.rules[company]
	doc := NewDocument(text)
	raw := Extract(rules, doc, filename)
	normalized := NormalizeRecord(rules, raw, filename)
	rec := Assemble(company, normalized, filename)

	out := s.policy.Validate(rec)
	if out.Status == StatusFailure {
		slog.Error("validation failed", "file", filename, "company", company, "missing", out.Missing)
		return out, s.finishFailure(path, filename, out)
	}

	if err := s.sink.Append(rec); err != nil {
		slog.Error("appending record failed", "file", filename, "error", err)
		return out, fmt.Errorf("appending record: %w", err)
	}
	s.archiveRecord(rec)

	if err := s.relocator.ToProcessed(path); err != nil {
		slog.Error("relocating processed file failed", "file", filename, "error", err)
		return out, fmt.Errorf("relocating processed file: %w", err)
	}
	slog.Info("document processed", "file", filename, "company", company)
	return out, nil
}

// finishFailure archives the failure and moves the file to the error
// location. A relocation error leaves the file in place.
func (s *Service) finishFailure(path, filename string, out *Outcome) error {
	s.archiveFailure(filename, out)
	if err := s.relocator.ToError(path); err != nil {
		slog.Error("relocating errored file failed", "file", filename, "error", err)
		return fmt.Errorf("relocating errored file: %w", err)
	}
	return nil
}

// Archive writes are observational: a failed write is logged and the
// document still reaches its terminal state.
func (s *Service) archiveRecord(rec *CanonicalRecord) {
	archived := &ArchivedRecord{
		ID:         s.idGenerator.Generate(),
		SourceFile: rec.SourceFile,
		Company:    rec.Company,
		Values:     rec.Values,
		CreatedAt:  s.timeSource.Now(),
	}
	if err := s.db.SaveRecord(archived); err != nil {
		slog.Warn("archiving record failed", "file", rec.SourceFile, "error", err)
	}
}

func (s *Service) archiveFailure(filename string, out *Outcome) {
	archived := &ArchivedFailure{
		ID:         s.idGenerator.Generate(),
		SourceFile: filename,
		Company:    out.Company,
		Reason:     out.Reason,
		Missing:    out.Missing,
		CreatedAt:  s.timeSource.Now(),
	}
	if err := s.db.SaveFailure(archived); err != nil {
		slog.Warn("archiving failure failed", "file", filename, "error", err)
	}
}

// GetRecord retrieves an archived record by ID
func (s *Service) GetRecord(id string) (*ArchivedRecord, error) {
	rec, err := s.db.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// ListRecords returns all archived records
func (s *Service) ListRecords() ([]*ArchivedRecord, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// ListFailures returns all archived failures
func (s *Service) ListFailures() ([]*ArchivedFailure, error) {
	failures, err := s.db.ListFailures()
	if err != nil {
		return nil, fmt.Errorf("listing failures: %w", err)
	}
	return failures, nil
}

// Stats summarizes archived outcomes for the status API.
type Stats struct {
	Records  int `json:"records"`
	Failures int `json:"failures"`
}

// GetStats returns outcome counts
func (s *Service) GetStats() (*Stats, error) {
	records, err := s.db.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	failures, err := s.db.ListFailures()
	if err != nil {
		return nil, fmt.Errorf("listing failures: %w", err)
	}
	return &Stats{Records: len(records), Failures: len(failures)}, nil
}
