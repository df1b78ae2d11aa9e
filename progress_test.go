package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_DisabledIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		tracker *ProgressTracker
	}{
		{"nil tracker", nil},
		{"disabled", NewProgressTracker(false, 10)},
		{"nothing to do", NewProgressTracker(true, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				tt.tracker.Start()
				tt.tracker.Step("vcns", "prod")
				tt.tracker.Stop()
			})
			if tt.tracker != nil {
				assert.False(t, tt.tracker.enabled)
			}
		})
	}
}

func TestCollector_TotalSteps(t *testing.T) {
	network := NewCollector(newFakeSource(), NewRun(nil), CollectConfig{Network: true}, false)
	everything := NewCollector(newFakeSource(), NewRun(nil), allModules(), false)

	// availability domains and routed private ips run once per region
	assert.Equal(t, 2*(2+15*3), network.totalSteps(2, 3))
	assert.Greater(t, everything.totalSteps(2, 3), network.totalSteps(2, 3))
	assert.Equal(t, 0, network.totalSteps(0, 3))
}

func TestTruncateStatus(t *testing.T) {
	long := "vcns in / acme (root) / " + strings.Repeat("生产", 30)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "vcns in prod", "vcns in prod"},
		{"exactly max", strings.Repeat("a", 60), strings.Repeat("a", 60)},
		{"ascii", strings.Repeat("a", 61), strings.Repeat("a", 57) + "..."},
		{"multi-byte", long, string([]rune(long)[:57]) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateStatus(tt.in, 60)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, utf8.RuneCountInString(got), 60)
		})
	}
}
