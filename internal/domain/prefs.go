package domain

import (
	"errors"
	"math"
	"sync"
)

// ErrInvalidThreshold is returned when a caller submits a threshold
// that is not a positive finite number.
var ErrInvalidThreshold = errors.New("threshold must be a positive number")

// PrefStore manages per-caller minimum net profit thresholds.
// State is process-local and lost on restart; the default applies thereafter.
type PrefStore struct {
	mu         sync.RWMutex
	thresholds map[int64]float64 // caller id -> min net profit (USD)
	defaultMin float64
}

// NewPrefStore creates a new PrefStore with the given default threshold.
func NewPrefStore(defaultMin float64) *PrefStore {
	return &PrefStore{
		thresholds: make(map[int64]float64),
		defaultMin: defaultMin,
	}
}

// Threshold returns the caller's threshold, falling back to the default
// for callers that never set one.
func (p *PrefStore) Threshold(callerID int64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.thresholds[callerID]; ok {
		return v
	}
	return p.defaultMin
}

// SetThreshold stores the caller's threshold, effective on the next scan.
// Non-positive and non-finite values are rejected and the previous value
// is left unchanged.
func (p *PrefStore) SetThreshold(callerID int64, value float64) error {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidThreshold
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.thresholds[callerID] = value
	return nil
}

// Default returns the configured default threshold.
func (p *PrefStore) Default() float64 {
	return p.defaultMin
}
