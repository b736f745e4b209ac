package resolver

import (
	"errors"
	"fmt"

	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/provider/mlb"
)

var (
	// ErrNotFound means the entity does not exist upstream or in the dataset.
	ErrNotFound = errors.New("not found")
	// ErrUpstream means a remote dependency failed (network, non-200, open breaker).
	ErrUpstream = errors.New("upstream unavailable")
	// ErrInvalidArgument means the caller's input cannot be resolved at all.
	ErrInvalidArgument = errors.New("invalid argument")
)

// CacheWriteError describes a failed best-effort write-back. It is logged
// and counted, never returned to callers.
type CacheWriteError struct {
	Collection string
	Key        string
	Err        error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write %s/%s: %v", e.Collection, e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }

// classify maps a StatsSource error onto the resolver's kinds.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mlb.ErrNotFound), errors.Is(err, docstore.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUpstream):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
}
