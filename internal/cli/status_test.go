package cli

import (
	"path/filepath"
	"testing"

	"github.com/tracksmith-io/tracksmith/internal/journal"
	"github.com/tracksmith-io/tracksmith/internal/telemetry"
)

func TestFormatCounters(t *testing.T) {
	if got := formatCounters(nil); got != "" {
		t.Errorf("formatCounters(nil) = %q", got)
	}

	got := formatCounters(map[string]int{"warnings": 1, "events": 12})
	want := " (events: 12, warnings: 1)"
	if got != want {
		t.Errorf("formatCounters() = %q, want %q", got, want)
	}
}

func TestLastRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), telemetry.JournalFile)

	if _, ok := lastRun(path); ok {
		t.Fatal("lastRun() found a record in a missing journal")
	}

	sink, err := journal.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Write(journal.NewRecord("audit", ".")); err != nil {
		t.Fatal(err)
	}
	last := journal.NewRecord("delta", ".")
	if err := sink.Write(last); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	rec, ok := lastRun(path)
	if !ok {
		t.Fatal("lastRun() = false after two writes")
	}
	if rec.Command != "delta" {
		t.Errorf("Command = %q, want the newest record", rec.Command)
	}
}
