package oracle

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// maxTimeoutRetries is the number of extra attempts after a deadline expiry.
// One retry recovers most transient slow generations; more just stacks latency.
const maxTimeoutRetries = 1

// TimeoutError indicates the generation call exceeded its deadline even
// after retrying.
type TimeoutError struct {
	Mode    Mode
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("oracle %s call timed out after %s", e.Mode, e.Timeout)
}

// Call issues one oracle completion under an explicit deadline, retrying
// once on timeout before surfacing a TimeoutError. Other failures propagate
// unretried.
func Call(ctx context.Context, client Client, config *Config, policy, instruction string, mode Mode) (string, error) {
	if config == nil {
		config = DefaultConfig()
	}
	timeout := config.ForMode(mode).Timeout

	var lastErr error
	for attempt := 0; attempt <= maxTimeoutRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := client.CompleteJSON(callCtx, policy, instruction, mode)
		cancel()

		if err == nil {
			return text, nil
		}
		lastErr = err

		// Only a deadline expiry on our own timer is worth a retry. If the
		// parent context is done, the caller has gone away.
		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %v", &TimeoutError{Mode: mode, Timeout: timeout}, lastErr)
}
