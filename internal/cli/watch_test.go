package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/tracksmith-io/tracksmith/internal/watch"
)

func TestPrintWatchReport_NoDrift(t *testing.T) {
	r := watch.Report{
		At:     time.Date(2026, 3, 9, 14, 30, 45, 0, time.UTC),
		Events: 7,
	}

	got := captureOutput(func() { printWatchReport(r) })

	if !strings.Contains(got, "[14:30:45]") {
		t.Errorf("output missing timestamp:\n%s", got)
	}
	if !strings.Contains(got, "in sync: 7 tracked events match the plan") {
		t.Errorf("output missing clean line:\n%s", got)
	}
}

func TestPrintWatchReport_Drift(t *testing.T) {
	r := watch.Report{
		At:        time.Date(2026, 3, 9, 9, 5, 0, 0, time.UTC),
		Events:    3,
		Unplanned: []string{"cart.peeked"},
		Missing:   []string{"order.completed"},
	}

	got := captureOutput(func() { printWatchReport(r) })

	if !strings.Contains(got, "cart.peeked") || !strings.Contains(got, "order.completed") {
		t.Errorf("output missing drift lines:\n%s", got)
	}
	if strings.Contains(got, "in sync") {
		t.Errorf("clean line printed alongside drift:\n%s", got)
	}
	for _, line := range strings.Split(strings.TrimSpace(got), "\n") {
		if !strings.HasPrefix(line, "[09:05:00]") {
			t.Errorf("line %q missing timestamp prefix", line)
		}
	}
}
