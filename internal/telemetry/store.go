// Package telemetry owns the artifact directory contract: the fixed set of
// files under .telemetry/ that carry state between workflow phases. Later
// commands and skill invocations locate prior phase outputs by these names,
// so the filenames never change.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/plan"
)

// DefaultDir is the artifact directory created inside the target repository.
const DefaultDir = ".telemetry"

// Fixed artifact filenames.
const (
	BusinessCaseFile = "business-case.md"
	ProductFile      = "product.md"
	CurrentStateFile = "current-state.yaml"
	TrackingPlanFile = "tracking-plan.yaml"
	DeltaFile        = "delta.md"
	InstrumentFile   = "instrument.md"
	ChangelogFile    = "changelog.md"
	JournalFile      = "journal.jsonl"
)

// ArtifactInfo describes one artifact slot for status reporting.
type ArtifactInfo struct {
	Name    string
	Present bool
	ModTime time.Time
}

// Store reads and writes the artifacts for one target repository.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore returns a store rooted at the telemetry directory inside rootDir.
// telemetryDir is relative to rootDir; empty selects the default.
func NewStore(rootDir, telemetryDir string) *Store {
	if telemetryDir == "" {
		telemetryDir = DefaultDir
	}
	return &Store{dir: filepath.Join(rootDir, telemetryDir)}
}

// Dir returns the absolute-or-relative path of the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of a named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// EnsureDir creates the artifact directory if needed.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0755)
}

// Exists reports whether the named artifact is present.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// ModTime returns the artifact's modification time, and whether it exists.
func (s *Store) ModTime(name string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fi, err := os.Stat(s.Path(name))
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

// Artifacts returns every artifact slot in workflow order with its presence.
func (s *Store) Artifacts() []ArtifactInfo {
	names := []string{
		BusinessCaseFile,
		ProductFile,
		CurrentStateFile,
		TrackingPlanFile,
		DeltaFile,
		InstrumentFile,
		ChangelogFile,
		JournalFile,
	}
	infos := make([]ArtifactInfo, 0, len(names))
	for _, name := range names {
		mod, ok := s.ModTime(name)
		infos = append(infos, ArtifactInfo{Name: name, Present: ok, ModTime: mod})
	}
	return infos
}

// LoadCurrentState reads current-state.yaml. A missing file returns
// (nil, nil); malformed YAML is an error naming the file.
func (s *Store) LoadCurrentState() (*audit.CurrentState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(CurrentStateFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state audit.CurrentState
	if err := yaml.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if state.Version > audit.StateVersion {
		return nil, fmt.Errorf("%s: version %d was written by a newer build (this one understands %d)", path, state.Version, audit.StateVersion)
	}
	return &state, nil
}

// SaveCurrentState writes current-state.yaml, creating the directory if
// needed.
func (s *Store) SaveCurrentState(state *audit.CurrentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.EnsureDir(); err != nil {
		return err
	}
	raw, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(CurrentStateFile), raw, 0644)
}

// LoadTrackingPlan reads tracking-plan.yaml with defaults applied. A missing
// file returns (nil, nil); malformed YAML is an error naming the file.
func (s *Store) LoadTrackingPlan() (*plan.TrackingPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.Path(TrackingPlanFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var p plan.TrackingPlan
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	p.ApplyDefaults()
	return &p, nil
}

// SaveTrackingPlan writes tracking-plan.yaml with defaults applied.
func (s *Store) SaveTrackingPlan(p *plan.TrackingPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.EnsureDir(); err != nil {
		return err
	}
	p.ApplyDefaults()
	raw, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(TrackingPlanFile), raw, 0644)
}

// ReadText reads a markdown artifact. A missing file returns empty content
// without error so generators can treat first runs and refreshes alike.
func (s *Store) ReadText(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(raw), nil
}

// WriteText writes a markdown artifact, creating the directory if needed.
func (s *Store) WriteText(name, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), []byte(content), 0644)
}
