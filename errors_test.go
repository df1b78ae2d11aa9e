package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"nil", nil, ErrorNone},
		{"not authorized or not found", notAuthorized(), ErrorWarning},
		{"too many requests", fakeServiceError{status: http.StatusTooManyRequests, code: "TooManyRequests"}, ErrorWarning},
		{"incorrect state", fakeServiceError{status: http.StatusConflict, code: "IncorrectState"}, ErrorWarning},
		{"limit exceeded", fakeServiceError{status: http.StatusBadRequest, code: "LimitExceeded"}, ErrorWarning},
		{"throttled by status only", fakeServiceError{status: http.StatusTooManyRequests, code: "Throttled"}, ErrorWarning},
		{"wrapped service error", fmt.Errorf("listing vcns: %w", notAuthorized()), ErrorWarning},
		{"internal server error", internalError(), ErrorFatal},
		{"invalid parameter", fakeServiceError{status: http.StatusBadRequest, code: "InvalidParameter"}, ErrorFatal},
		{"service missing in region", errors.New("dial tcp: lookup database.me-dcc-1.oraclecloud.com: no such host"), ErrorWarning},
		{"breaker open", gobreaker.ErrOpenState, ErrorWarning},
		{"retries exhausted", errors.New("Max retries exceeded"), ErrorWarning},
		{"context canceled", context.Canceled, ErrorFatal},
		{"deadline exceeded", fmt.Errorf("listing: %w", context.DeadlineExceeded), ErrorFatal},
		{"unknown error", errors.New("unexpected EOF"), ErrorFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err), "class of %v", tt.err)
		})
	}
}

func TestErrorClass_String(t *testing.T) {
	assert.Equal(t, "none", ErrorNone.String())
	assert.Equal(t, "warning", ErrorWarning.String())
	assert.Equal(t, "fatal", ErrorFatal.String())
	assert.Equal(t, "unknown", ErrorClass(42).String())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "NotAuthorizedOrNotFound", errorCode(fmt.Errorf("x: %w", notAuthorized())))
	assert.Equal(t, "", errorCode(errors.New("plain")))
}

func TestTolerate(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantErr      bool
		wantWarnings int64
		wantErrors   int64
	}{
		{"nil", nil, false, 0, 0},
		{"NotAuthorizedOrNotFound", notAuthorized(), false, 1, 0},
		{"TooManyRequests", fakeServiceError{status: http.StatusTooManyRequests, code: "TooManyRequests"}, false, 1, 0},
		{"IncorrectState", fakeServiceError{status: http.StatusConflict, code: "IncorrectState"}, false, 1, 0},
		{"InternalServerError", internalError(), true, 0, 1},
		{"interrupted", context.Canceled, true, 0, 0},
		{"timed out", fmt.Errorf("list vcns: %w", context.DeadlineExceeded), true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := NewRun(nil)

			err := run.tolerate(tt.err, "vcns in / acme (root)")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
				assert.Contains(t, err.Error(), "vcns in / acme (root)")
			} else {
				assert.NoError(t, err)
			}
			counts := run.Counts()
			assert.Equal(t, tt.wantWarnings, counts.ServiceWarnings)
			assert.Equal(t, tt.wantErrors, counts.ServiceErrors)
		})
	}
}

func TestSafely_RecoversPanic(t *testing.T) {
	run := NewRun(nil)
	reached := false

	run.safely("boom", func() {
		var m map[string]int
		m["x"] = 1
	})
	run.safely("fine", func() { reached = true })

	assert.True(t, reached)
	assert.Equal(t, int64(1), run.Counts().ProcessingErrors)
}

func TestGuarded_OpensOnlyForUnavailableService(t *testing.T) {
	breakers := NewBreakers()
	calls := 0
	unavailable := func() ([]Vcn, error) {
		calls++
		return nil, errors.New("lookup iaas.xx-new-1.oraclecloud.com: no such host")
	}

	_, err := guarded(breakers, "xx-new-1", serviceNetwork, unavailable)
	require.Error(t, err)
	assert.Equal(t, gobreaker.StateOpen, breakers.State("xx-new-1", serviceNetwork))

	_, err = guarded(breakers, "xx-new-1", serviceNetwork, unavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 1, calls)

	// other regions and services keep their own breaker
	assert.Equal(t, gobreaker.StateClosed, breakers.State(testHome, serviceNetwork))
	assert.Equal(t, gobreaker.StateClosed, breakers.State("xx-new-1", serviceCompute))
}

func TestGuarded_PermissionErrorsKeepBreakerClosed(t *testing.T) {
	breakers := NewBreakers()

	for i := 0; i < 3; i++ {
		_, err := guarded(breakers, testHome, serviceCompute, func() ([]Instance, error) {
			return nil, notAuthorized()
		})
		assert.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed, breakers.State(testHome, serviceCompute))
}

func TestGuarded_PassesResultThrough(t *testing.T) {
	want := []Drg{{Base: Base{ID: "drg1"}}}

	got, err := guarded(NewBreakers(), testHome, serviceNetwork, func() ([]Drg, error) { return want, nil })
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = guarded[[]Drg](nil, testHome, serviceNetwork, func() ([]Drg, error) { return want, nil })
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
