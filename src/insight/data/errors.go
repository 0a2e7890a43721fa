package data

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error taxonomy surfaced to callers. The subsystem itself never retries;
// ErrUpstream is the retryable class, ErrNotFound is not, and
// ErrIncompleteData signals best-effort degradation rather than failure.
var (
	ErrNotFound       = errors.New("not found")
	ErrIncompleteData = errors.New("incomplete data")
	ErrUpstream       = errors.New("upstream unavailable")
)

// wrapDB maps gorm errors onto the taxonomy.
func wrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrUpstream)
}
