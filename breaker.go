package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Service names used to key the circuit breakers
const (
	serviceIdentity = "identity"
	serviceNetwork  = "network"
	serviceCompute  = "compute"
	serviceStorage  = "blockstorage"
	serviceDatabase = "database"
)

// Breakers keeps one circuit breaker per (region, service). A breaker opens the
// first time a service reports it is unavailable in a region; every later call
// to that service in the region is then skipped without a network round trip.
type Breakers struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewBreakers creates an empty breaker set
func NewBreakers() *Breakers {
	return &Breakers{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (b *Breakers) get(region, service string) *gobreaker.CircuitBreaker {
	key := region + "/" + service

	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[key]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    key,
		Timeout: time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		// only regional unavailability counts against the breaker
		IsSuccessful: func(err error) bool {
			return err == nil || !isServiceUnavailable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				logger.Warn("Service %s is not available, skipping it for this region", name)
			}
		},
	})
	b.breakers[key] = cb
	return cb
}

// State reports the state of one breaker, closed when it was never used
func (b *Breakers) State(region, service string) gobreaker.State {
	b.mu.Lock()
	cb, ok := b.breakers[region+"/"+service]
	b.mu.Unlock()
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

// guarded runs fn through the breaker for (region, service)
func guarded[T any](b *Breakers, region, service string, fn func() (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn()
	}

	out, err := b.get(region, service).Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}
	result, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T from %s/%s", out, region, service)
	}
	return result, nil
}
