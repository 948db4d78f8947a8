// Package journal appends one JSONL record per command run to
// .telemetry/journal.jsonl. The journal is a machine-readable trail of what
// tracksmith did to a repository, cheap to grep or pipe into jq.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunRecord is one journaled command invocation.
type RunRecord struct {
	RunID      string         `json:"run_id"`
	Time       time.Time      `json:"time"`
	Command    string         `json:"command"`
	Root       string         `json:"root"`
	DurationMS int64          `json:"duration_ms,omitempty"`
	Counters   map[string]int `json:"counters,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// NewRecord starts a record for the named command.
func NewRecord(command, root string) RunRecord {
	return RunRecord{
		RunID:    uuid.New().String(),
		Time:     time.Now().UTC(),
		Command:  command,
		Root:     root,
		Counters: make(map[string]int),
	}
}

// Done stamps the duration since the record was created and the error, if
// any, and returns the finished record.
func (r RunRecord) Done(err error) RunRecord {
	r.DurationMS = time.Since(r.Time).Milliseconds()
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Sink appends run records to the journal file.
// It is safe for concurrent use from multiple goroutines.
type Sink struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// Open opens the journal file at path in append mode, creating it and its
// parent directory if needed.
// 0600: journal lines carry event names and repository paths.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	return &Sink{
		path:   path,
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Write appends one record as a JSON line and flushes it.
func (s *Sink) Write(rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}
	if _, err := s.writer.Write(data); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush journal: %w", err)
	}
	return nil
}

// Close flushes any remaining data and closes the file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.writer.Flush(); err != nil {
		_ = s.file.Close()
		s.file = nil
		return fmt.Errorf("flush before close: %w", err)
	}
	if err := s.file.Close(); err != nil {
		s.file = nil
		return fmt.Errorf("close journal: %w", err)
	}
	s.file = nil
	return nil
}

// Path returns the journal file path.
func (s *Sink) Path() string {
	return s.path
}

// Read loads all records from a journal file, oldest first.
func Read(path string) ([]RunRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []RunRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec RunRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse journal line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return records, nil
}
