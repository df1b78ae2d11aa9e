package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Counts is a snapshot of the run counters
type Counts struct {
	ServiceErrors    int64 `json:"service_errors"`
	ServiceWarnings  int64 `json:"service_warnings"`
	ProcessingErrors int64 `json:"processing_errors"`
}

// Run is the run-scoped context threaded through the collector, the lookup
// engine and the report builder. It owns the store and the error counters.
type Run struct {
	ID      string
	Store   *ResourceStore
	Started time.Time

	mu     sync.RWMutex
	region string

	serviceErrors    atomic.Int64
	serviceWarnings  atomic.Int64
	processingErrors atomic.Int64
}

// NewRun creates a run around an empty or pre-populated store
func NewRun(store *ResourceStore) *Run {
	if store == nil {
		store = NewResourceStore()
	}
	return &Run{
		ID:      uuid.NewString(),
		Store:   store,
		Started: time.Now(),
	}
}

// SetRegion records the region the collector is currently working in
func (r *Run) SetRegion(region string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.region = region
}

// Region returns the region of the current pass
func (r *Run) Region() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.region
}

// Warning counts a skipped service call
func (r *Run) Warning(format string, args ...interface{}) {
	r.serviceWarnings.Add(1)
	logger.Warn(format, args...)
}

// ServiceError counts a service call failure that aborts the run
func (r *Run) ServiceError(format string, args ...interface{}) {
	r.serviceErrors.Add(1)
	logger.Error(format, args...)
}

// ProcessingError counts a local failure inside a join or build step
func (r *Run) ProcessingError(format string, args ...interface{}) {
	r.processingErrors.Add(1)
	logger.Error(format, args...)
}

// Counts returns the current counter values
func (r *Run) Counts() Counts {
	return Counts{
		ServiceErrors:    r.serviceErrors.Load(),
		ServiceWarnings:  r.serviceWarnings.Load(),
		ProcessingErrors: r.processingErrors.Load(),
	}
}

// tolerate applies the error classification to a failed call. Warnings are
// counted and swallowed; anything else is counted and returned wrapped.
// Cancellation is returned without being counted.
func (r *Run) tolerate(err error, what string) error {
	if isCancelled(err) {
		return fmt.Errorf("%s: %w", what, err)
	}

	switch classifyError(err) {
	case ErrorNone:
		return nil
	case ErrorWarning:
		if code := errorCode(err); code != "" {
			r.Warning("Skipping %s: %s", what, code)
		} else {
			r.Warning("Skipping %s: %v", what, err)
		}
		return nil
	default:
		r.ServiceError("Failed %s: %v", what, err)
		return fmt.Errorf("%s: %w", what, err)
	}
}

// safely runs a build step, converting a panic into a processing error
func (r *Run) safely(what string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.ProcessingError("%s: %v", what, rec)
		}
	}()
	fn()
}
