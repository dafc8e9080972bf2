package engine

import (
	"errors"
	"fmt"
	"time"
)

// EvalTimeout is the default limit for one evaluation.
const EvalTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when a script runs past the engine timeout.
	ErrTimeout = errors.New("engine: evaluation timed out")
	// ErrSuperseded is returned when a newer Evaluate call started before
	// this one finished.
	ErrSuperseded = errors.New("engine: evaluation superseded by a newer request")
)

type evalResult struct {
	plan   *Plan
	errors []EvalError
	err    error
}

// next starts a new evaluation generation and returns it.
func (e *Engine) next() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// current reports whether gen is still the latest generation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}

// wait returns the result of evaluation gen from ch. On timeout the
// evaluating goroutine keeps running; ch must be buffered so it can finish
// and its result is dropped.
func (e *Engine) wait(ch <-chan evalResult, gen uint64) (*Plan, []EvalError, error) {
	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.plan, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	}
}
