package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Sink receives measurements as cases complete. Implementations must be
// safe for concurrent use; the runner emits from multiple workers.
type Sink interface {
	Emit(ms []Measurement) error
	Close() error
}

// JSONLSink appends each measurement as one JSON line.
type JSONLSink struct {
	mu  sync.Mutex
	w   io.WriteCloser
	enc *json.Encoder
}

// NewJSONLSink opens (or creates) path for appending.
func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening metrics file %q: %w", path, err)
	}
	return &JSONLSink{w: f, enc: json.NewEncoder(f)}, nil
}

func (s *JSONLSink) Emit(ms []Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range ms {
		if err := s.enc.Encode(m); err != nil {
			return fmt.Errorf("writing measurement: %w", err)
		}
	}
	return nil
}

func (s *JSONLSink) Close() error {
	return s.w.Close()
}

// SlogSink logs each measurement at debug level.
type SlogSink struct{}

func (SlogSink) Emit(ms []Measurement) error {
	for _, m := range ms {
		slog.Debug("metric", "name", m.Name, "value", m.Value, "case", m.Tags[TagCaseID])
	}
	return nil
}

func (SlogSink) Close() error { return nil }

// MemorySink collects measurements in memory for tests and summaries.
type MemorySink struct {
	mu           sync.Mutex
	measurements []Measurement
}

func (s *MemorySink) Emit(ms []Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.measurements = append(s.measurements, ms...)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Measurements returns a copy of everything emitted so far.
func (s *MemorySink) Measurements() []Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Measurement, len(s.measurements))
	copy(out, s.measurements)
	return out
}

// MultiSink fans out to several sinks, stopping at the first error.
type MultiSink []Sink

func (m MultiSink) Emit(ms []Measurement) error {
	for _, s := range m {
		if err := s.Emit(ms); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
