// Package changelog maintains .telemetry/changelog.md: one dated entry per
// applied tracking change, newest first. Entries carry a short id and the
// per-kind counts of the delta they applied, and parse back for status.
package changelog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tracksmith-io/tracksmith/internal/delta"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

const header = "# Tracking Changelog\n"

// Entry is one changelog record.
type Entry struct {
	ID      string // first uuid segment, 8 hex chars
	Date    time.Time
	Summary string
	Adds    int
	Renames int
	Changes int
	Removes int
}

var (
	entryHeading = regexp.MustCompile(`^## (\d{4}-\d{2}-\d{2}) \(([0-9a-f]{8})\)$`)
	countsLine   = regexp.MustCompile(`^- add: (\d+), rename: (\d+), change: (\d+), remove: (\d+)$`)
)

// Log reads and appends changelog entries through a telemetry store.
type Log struct {
	store *telemetry.Store
}

// NewLog binds a changelog to the store that owns its file.
func NewLog(store *telemetry.Store) *Log {
	return &Log{store: store}
}

// Add prepends a new entry recording the applied delta. The id and date are
// assigned here; d may be nil for a free-form entry.
func (l *Log) Add(summary string, d *delta.Delta) (Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		ID:      uuid.New().String()[:8],
		Date:    time.Now().UTC(),
		Summary: strings.TrimSpace(summary),
	}
	if d != nil {
		e.Adds = len(d.Adds)
		e.Renames = len(d.Renames)
		e.Changes = len(d.Changes)
		e.Removes = len(d.Removes)
	}

	entries = append([]Entry{e}, entries...)
	if err := l.write(entries); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries parses the changelog, newest first. A missing file is empty.
func (l *Log) Entries() ([]Entry, error) {
	content, err := l.store.ReadText(telemetry.ChangelogFile)
	if err != nil {
		return nil, err
	}
	return parse(content), nil
}

// Latest returns the most recent entry.
func (l *Log) Latest() (Entry, bool, error) {
	entries, err := l.Entries()
	if err != nil || len(entries) == 0 {
		return Entry{}, false, err
	}
	return entries[0], true, nil
}

func (l *Log) write(entries []Entry) error {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(renderEntry(e))
	}
	return l.store.WriteText(telemetry.ChangelogFile, b.String())
}

func renderEntry(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", e.Date.Format("2006-01-02"), e.ID)
	if e.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", e.Summary)
	}
	fmt.Fprintf(&b, "- add: %d, rename: %d, change: %d, remove: %d\n", e.Adds, e.Renames, e.Changes, e.Removes)
	return b.String()
}

func parse(content string) []Entry {
	var entries []Entry
	var cur *Entry
	var summary []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Summary = strings.TrimSpace(strings.Join(summary, "\n"))
		entries = append(entries, *cur)
		cur = nil
		summary = nil
	}

	for _, line := range strings.Split(content, "\n") {
		if m := entryHeading.FindStringSubmatch(line); m != nil {
			flush()
			date, err := time.Parse("2006-01-02", m[1])
			if err != nil {
				continue
			}
			cur = &Entry{ID: m[2], Date: date}
			continue
		}
		if cur == nil {
			continue
		}
		if m := countsLine.FindStringSubmatch(line); m != nil {
			cur.Adds = atoi(m[1])
			cur.Renames = atoi(m[2])
			cur.Changes = atoi(m[3])
			cur.Removes = atoi(m[4])
			continue
		}
		summary = append(summary, line)
	}
	flush()
	return entries
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
