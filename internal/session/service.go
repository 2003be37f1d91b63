package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zombor/codebook/internal/scanning"
)

// IDGenerator generates unique IDs for sessions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs scan operations and accumulates their records in the
// current session. Scan failures are logged at the operation boundary
// and surface as zero results, never as errors to the caller.
type Service struct {
	db          DB
	decoder     scanning.Decoder
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource

	mu      sync.Mutex
	current *Session
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, decoder scanning.Decoder, storage Storage) *Service {
	return NewServiceWithDeps(db, decoder, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, decoder scanning.Decoder, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	s := &Service{
		db:          db,
		decoder:     decoder,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
	s.current = s.newSession()
	return s
}

func (s *Service) newSession() *Session {
	return &Session{
		ID:        s.idGenerator.Generate(),
		StartedAt: s.timeSource.Now(),
	}
}

// makeRecords stamps decode results with source and capture time
func (s *Service) makeRecords(source string, results []scanning.Result) []Record {
	now := s.timeSource.Now()
	records := make([]Record, 0, len(results))
	for _, r := range results {
		records = append(records, Record{
			Data:      r.Data,
			Symbology: r.Symbology,
			Rect:      r.Rect,
			Polygon:   r.Polygon,
			Source:    source,
			Timestamp: now,
		})
	}
	return records
}

func (s *Service) append(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Add(records...)
}

// ScanImage scans a single image file and accumulates its records
func (s *Service) ScanImage(path string) []Record {
	results := scanning.ScanFile(s.decoder, path)
	records := s.makeRecords(path, results)
	s.append(records)
	slog.Info("Image scanned", "path", path, "codes", len(records))
	return records
}

// ScanUpload scans raw image bytes, attributing records to the given name
func (s *Service) ScanUpload(name string, data []byte) ([]Record, error) {
	results, err := scanning.ScanBytes(s.decoder, data, name)
	if err != nil {
		return nil, fmt.Errorf("scanning upload: %w", err)
	}
	records := s.makeRecords(name, results)
	s.append(records)
	return records, nil
}

// ScanDirectory scans every recognized image file under dir, sequentially.
// A missing directory is logged and yields zero results.
func (s *Service) ScanDirectory(dir string, recursive bool) []Record {
	files, err := scanning.CollectImages(dir, recursive)
	if err != nil {
		slog.Error("Failed to list directory", "path", dir, "error", err)
		return nil
	}

	slog.Info("Found image files to scan", "path", dir, "count", len(files))

	var all []Record
	for _, f := range files {
		slog.Info("Scanning", "path", f)
		all = append(all, s.ScanImage(f)...)
	}
	return all
}

// ScanWebcam scans frames from the capture device until the configured
// duration elapses or ctx is canceled. A camera that cannot be opened is
// logged and yields zero results.
func (s *Service) ScanWebcam(ctx context.Context, opts scanning.WebcamOptions) []Record {
	source := fmt.Sprintf("webcam:%d", opts.Device)

	var records []Record
	err := scanning.ScanWebcam(ctx, s.decoder, opts, func(r scanning.Result) {
		rec := s.makeRecords(source, []scanning.Result{r})
		s.append(rec)
		records = append(records, rec...)
	})
	if err != nil {
		slog.Error("Webcam scan failed", "error", err)
		return nil
	}

	return records
}

// Records returns a copy of the current session's records
func (s *Service) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.current.Records))
	copy(out, s.current.Records)
	return out
}

// Total returns the number of records in the current session
func (s *Service) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Total()
}

// Clear discards the current session and starts a fresh one
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.newSession()
}

// exportData serializes the current records in the format the filename's
// extension picks (.txt for plain text, JSON otherwise).
func (s *Service) exportData(filename string) ([]byte, int, error) {
	records := s.Records()
	now := s.timeSource.Now()

	switch FormatForFilename(filename) {
	case FormatText:
		return ExportText(records, now), len(records), nil
	default:
		data, err := ExportJSON(records, now)
		if err != nil {
			return nil, 0, err
		}
		return data, len(records), nil
	}
}

// Export serializes the current session's records to the named file
// through storage. Returns the written path.
func (s *Service) Export(filename string) (string, error) {
	data, count, err := s.exportData(filename)
	if err != nil {
		return "", err
	}

	path, err := s.storage.Save(filename, data)
	if err != nil {
		return "", fmt.Errorf("saving export: %w", err)
	}

	slog.Info("Results exported", "path", path, "codes", count)
	return path, nil
}

// ExportFile writes the current session's records to the exact path
// given, independent of the export directory. Absolute and relative
// paths are honored verbatim.
func (s *Service) ExportFile(path string) error {
	data, count, err := s.exportData(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	slog.Info("Results exported", "path", path, "codes", count)
	return nil
}

// ReadExport returns a previously written export file from the export
// directory
func (s *Service) ReadExport(filename string) ([]byte, error) {
	data, err := s.storage.Get(filename)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	return data, nil
}

// DeleteExport removes a previously written export file from the export
// directory
func (s *Service) DeleteExport(filename string) error {
	if err := s.storage.Delete(filename); err != nil {
		return fmt.Errorf("deleting export: %w", err)
	}
	return nil
}

// SaveSession persists the current session and returns it. Empty
// sessions are not saved.
func (s *Service) SaveSession() (*Session, error) {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess.Total() == 0 {
		return nil, fmt.Errorf("session has no records")
	}

	if err := s.db.SaveSession(sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return sess, nil
}

// GetSession retrieves a saved session by ID
func (s *Service) GetSession(id string) (*Session, error) {
	sess, err := s.db.GetSession(id)
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

// ListSessions returns all saved sessions
func (s *Service) ListSessions() ([]*Session, error) {
	sessions, err := s.db.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes a saved session
func (s *Service) DeleteSession(id string) error {
	if err := s.db.DeleteSession(id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
