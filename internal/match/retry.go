package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Retry runs op until it returns something other than ErrConflict, at most
// attempts times. op must re-read every record it depends on, so each attempt
// re-validates its preconditions against current state.
func Retry(ctx context.Context, attempts int, op func(ctx context.Context) (Result, error)) (Result, error) {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var res Result
		res, err = op(ctx)
		if err == nil || !errors.Is(err, ErrConflict) {
			return res, err
		}
		if attempt == attempts {
			break
		}
		backoff := time.Duration(attempt*10+rand.Intn(10)) * time.Millisecond
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return Result{}, fmt.Errorf("%w: %w", ErrTryAgain, err)
}
