package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/mattn/go-isatty"
)

// ProgressTracker draws a progress bar for the collection steps on stderr
type ProgressTracker struct {
	enabled  bool
	progress *uiprogress.Progress
	bar      *uiprogress.Bar

	mu      sync.RWMutex
	current string
}

// progressAllowed reports whether stderr can host a live progress bar
func progressAllowed() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// NewProgressTracker creates a tracker for total steps. A disabled tracker is a no-op.
func NewProgressTracker(enabled bool, total int) *ProgressTracker {
	if !enabled || total <= 0 {
		return &ProgressTracker{enabled: false}
	}

	pt := &ProgressTracker{enabled: true}
	pt.progress = uiprogress.New()
	pt.progress.SetOut(os.Stderr)
	pt.bar = pt.progress.AddBar(total).AppendCompleted().PrependElapsed()
	pt.bar.AppendFunc(func(b *uiprogress.Bar) string {
		pt.mu.RLock()
		defer pt.mu.RUnlock()
		return " " + truncateStatus(pt.current, 60)
	})
	return pt
}

// Start begins the progress tracking display
func (pt *ProgressTracker) Start() {
	if pt == nil || !pt.enabled {
		return
	}
	pt.progress.Start()
}

// Stop terminates the progress tracking
func (pt *ProgressTracker) Stop() {
	if pt == nil || !pt.enabled {
		return
	}
	pt.progress.Stop()
}

// Step records one finished collection step
func (pt *ProgressTracker) Step(operation, compartment string) {
	if pt == nil || !pt.enabled {
		return
	}
	pt.mu.Lock()
	pt.current = fmt.Sprintf("%s in %s", operation, compartment)
	pt.mu.Unlock()
	pt.bar.Incr()
}

// truncateStatus shortens s to at most limit runes, ending in "..."
func truncateStatus(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
