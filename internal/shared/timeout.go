package shared

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// DefaultCallTimeout bounds a single store or renderer call.
const DefaultCallTimeout = 10 * time.Second

// WithCallTimeout runs fn under a deadline and reports deadline overruns as
// ErrTimeout so callers can tell them apart from other upstream failures.
func WithCallTimeout(ctx context.Context, timeout time.Duration, op string, fn func(context.Context) error) error {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(callCtx)
	if err == nil {
		return nil
	}
	if IsTimeout(err) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsTimeout reports whether err stems from a deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func joinFieldNames(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
