// Package watch re-audits a repository when source files change and reports
// tracking drift against the plan: events the code sends that the plan never
// named, and planned events whose instrumentation disappeared.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tracksmith-io/tracksmith/internal/audit"
	"github.com/tracksmith-io/tracksmith/internal/plan"
	"github.com/tracksmith-io/tracksmith/internal/scanner"
)

// Report is the outcome of one re-audit after a change burst settles.
type Report struct {
	At        time.Time
	Events    int      // live events observed
	Unplanned []string // live events absent from the plan
	Missing   []string // planned events with no live instrumentation
	Err       error
}

// Lines renders the report as drift lines for the terminal.
func (r Report) Lines() []string {
	if r.Err != nil {
		return []string{fmt.Sprintf("audit failed: %v", r.Err)}
	}
	var lines []string
	for _, name := range r.Unplanned {
		lines = append(lines, fmt.Sprintf("drift: %s is tracked but not in the plan", name))
	}
	for _, name := range r.Missing {
		lines = append(lines, fmt.Sprintf("drift: %s is planned but not instrumented", name))
	}
	if len(lines) == 0 {
		lines = append(lines, fmt.Sprintf("in sync: %d tracked events match the plan", r.Events))
	}
	return lines
}

// Options adjusts watcher behavior.
type Options struct {
	Debounce time.Duration   // settle window for change bursts; default 500ms
	Scan     scanner.Options // traversal limits shared with scan and audit
	OnReport func(Report)    // invoked after every re-audit, including the first
}

// Watcher re-audits a repository root on source changes.
type Watcher struct {
	root      string
	planNames map[string]bool
	debounce  time.Duration
	scanOpts  scanner.Options
	onReport  func(Report)

	mu      sync.Mutex
	pending time.Time // latest relevant change; zero when idle
}

// New creates a watcher comparing observed events against p. A nil plan
// reports every observed event as unplanned.
func New(root string, p *plan.TrackingPlan, opts Options) *Watcher {
	names := make(map[string]bool)
	if p != nil {
		for _, e := range p.Events {
			names[e.Name] = true
		}
	}
	w := &Watcher{
		root:      root,
		planNames: names,
		debounce:  opts.Debounce,
		scanOpts:  opts.Scan,
		onReport:  opts.OnReport,
	}
	if w.debounce <= 0 {
		w.debounce = 500 * time.Millisecond
	}
	if w.onReport == nil {
		w.onReport = func(Report) {}
	}
	return w
}

// Run audits once up front, then blocks, re-auditing after each settled
// change burst, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.addDirs(fw, w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}

	w.onReport(w.reaudit())

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.onReport(Report{At: time.Now(), Err: err})
		case <-ticker.C:
			if w.settled() {
				w.onReport(w.reaudit())
			}
		}
	}
}

// addDirs registers dir and every non-skipped subdirectory. fsnotify does
// not recurse on its own. An unreadable dir itself is an error; unreadable
// subdirectories are skipped.
func (w *Watcher) addDirs(fw *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !fi.IsDir() {
			return nil
		}
		if path != dir {
			if scanner.SkipDir(fi.Name()) {
				return filepath.SkipDir
			}
			if rel, relErr := filepath.Rel(w.root, path); relErr == nil && w.excludedDir(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		_ = fw.Add(path)
		return nil
	})
}

func (w *Watcher) excludedDir(rel string) bool {
	base := filepath.Base(rel)
	for _, glob := range w.scanOpts.Exclude {
		if ok, _ := filepath.Match(glob, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(glob, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if event.Op&relevant == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if !scanner.SkipDir(fi.Name()) {
				_ = w.addDirs(fw, event.Name)
				w.mark()
			}
			return
		}
	}
	if scanner.LanguageForFile(event.Name) == "" {
		return
	}
	w.mark()
}

func (w *Watcher) mark() {
	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// settled reports whether a pending change burst has been quiet for the
// debounce window, consuming it if so.
func (w *Watcher) settled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

// reaudit rescans and re-audits the repository, then compares observed live
// event names against the plan.
func (w *Watcher) reaudit() Report {
	rep := Report{At: time.Now()}

	info, err := scanner.NewWithOptions(w.root, w.scanOpts).Scan()
	if err != nil {
		rep.Err = fmt.Errorf("scan: %w", err)
		return rep
	}
	state, err := audit.New(w.root, info).Run()
	if err != nil {
		rep.Err = fmt.Errorf("audit: %w", err)
		return rep
	}

	live := make(map[string]bool)
	for _, e := range state.LiveEvents() {
		live[e.Name] = true
		rep.Events++
		if !w.planNames[e.Name] {
			rep.Unplanned = append(rep.Unplanned, e.Name)
		}
	}
	for name := range w.planNames {
		if !live[name] {
			rep.Missing = append(rep.Missing, name)
		}
	}
	sort.Strings(rep.Unplanned)
	sort.Strings(rep.Missing)
	return rep
}
