// Package model provides core abstractions shared by all somnus estimators.
//
// The central type is StateManager, which tracks whether an estimator has
// been fitted and the dimensions of its training data. Estimators hold a
// StateManager by composition:
//
//	type RandomForestRegressor struct {
//		state *model.StateManager
//		...
//	}
//
//	func (f *RandomForestRegressor) Fit(X, y mat.Matrix) error {
//		// ... training logic ...
//		f.state.SetFitted()
//		f.state.SetDimensions(nFeatures, nSamples)
//		return nil
//	}
//
// State access is safe for concurrent use, matching the library's
// contract that a fitted, no-longer-mutated estimator may serve
// predictions from multiple goroutines.
package model

import "sync"

// EstimatorState represents the learning state of a model.
type EstimatorState int

const (
	// NotFitted indicates the model is not yet trained.
	NotFitted EstimatorState = iota
	// Fitted indicates the model has been trained.
	Fitted
)

// StateManager tracks fitted state and training dimensions for an estimator.
type StateManager struct {
	mu        sync.RWMutex
	state     EstimatorState
	nFeatures int
	nSamples  int
}

// NewStateManager creates a StateManager in the NotFitted state.
func NewStateManager() *StateManager {
	return &StateManager{state: NotFitted}
}

// IsFitted reports whether the estimator has been trained.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == Fitted
}

// SetFitted marks the estimator as trained. Called by estimator
// implementations at the end of a successful Fit.
func (s *StateManager) SetFitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Fitted
}

// Reset returns the estimator to its initial untrained state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NotFitted
	s.nFeatures = 0
	s.nSamples = 0
}

// SetDimensions records the feature and sample counts seen during Fit.
func (s *StateManager) SetDimensions(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// NFeatures returns the number of features seen during Fit.
func (s *StateManager) NFeatures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures
}

// NSamples returns the number of samples seen during Fit.
func (s *StateManager) NSamples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nSamples
}
