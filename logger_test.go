package main

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
	}{
		{"silent", "silent", LogLevelSilent},
		{"normal", "normal", LogLevelNormal},
		{"verbose", "verbose", LogLevelVerbose},
		{"debug", "debug", LogLevelDebug},
		{"uppercase", "DEBUG", LogLevelDebug},
		{"mixed case", "Verbose", LogLevelVerbose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLogLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseLogLevel_InvalidLevel(t *testing.T) {
	invalidLevels := []string{"invalid", "error", "warn", "info", "trace", ""}

	for _, level := range invalidLevels {
		t.Run(level, func(t *testing.T) {
			_, err := ParseLogLevel(level)
			assert.Error(t, err)
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "silent", LogLevelSilent.String())
	assert.Equal(t, "normal", LogLevelNormal.String())
	assert.Equal(t, "verbose", LogLevelVerbose.String())
	assert.Equal(t, "debug", LogLevelDebug.String())
	assert.Equal(t, "unknown", LogLevel(42).String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      LogLevel
		want       []string
		wantNoneOf []string
	}{
		{
			name:       "silent",
			level:      LogLevelSilent,
			want:       []string{"error-msg"},
			wantNoneOf: []string{"warn-msg", "info-msg", "verbose-msg", "debug-msg"},
		},
		{
			name:       "normal",
			level:      LogLevelNormal,
			want:       []string{"error-msg", "warn-msg", "info-msg"},
			wantNoneOf: []string{"verbose-msg", "debug-msg"},
		},
		{
			name:       "verbose",
			level:      LogLevelVerbose,
			want:       []string{"error-msg", "warn-msg", "info-msg", "verbose-msg"},
			wantNoneOf: []string{"debug-msg"},
		},
		{
			name:  "debug",
			level: LogLevelDebug,
			want:  []string{"error-msg", "warn-msg", "info-msg", "verbose-msg", "debug-msg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLoggerTo(&buf, tt.level)

			l.Error("error-msg")
			l.Warn("warn-msg")
			l.Info("info-msg")
			l.Verbose("verbose-msg")
			l.Debug("debug-msg")

			out := buf.String()
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.wantNoneOf {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLoggerTo(&buf, LogLevelSilent)

	l.Info("hidden")
	l.SetLevel(LogLevelNormal)
	l.Info("shown %d", 42)

	assert.Equal(t, LogLevelNormal, l.GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 42")
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	var buf bytes.Buffer
	l := newLoggerTo(&buf, LogLevelDebug)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Info("Goroutine %d, message %d", goroutineID, j)
				if j == 25 {
					l.SetLevel(LogLevelVerbose)
				}
			}
		}(i)
	}
	wg.Wait()
}
