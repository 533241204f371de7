// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/telekom/hoptrace/internal/logger"
)

// maxRetryCount caps the number of retries to keep a single CLI invocation bounded.
const maxRetryCount = 5

// RetryConfig configures how often and with which initial delay a failed effector is re-run.
type RetryConfig struct {
	Count int           `json:"count" yaml:"count" mapstructure:"count"`
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Validate checks that the retry configuration is within bounds
func (rc RetryConfig) Validate() error {
	if rc.Count < 0 || rc.Count > maxRetryCount {
		return fmt.Errorf("retry count must be between 0 and %d, got %d", maxRetryCount, rc.Count)
	}
	if rc.Delay < 0 {
		return errors.New("retry delay must not be negative")
	}
	return nil
}

// Effector will be the function called by the Retry function
type Effector func(context.Context) error

// Retry will retry the run the effector function in an exponential backoff
func Retry(effector Effector, rc RetryConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		for r := 1; ; r++ {
			err := effector(ctx)
			if err == nil || r > rc.Count {
				return err
			}

			delay := getExpBackoff(rc.Delay, r)
			log.WarnContext(ctx, fmt.Sprintf("Effector call failed, retrying in %v", delay), "attempt", r, "error", err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

// calculate the exponential delay for a given iteration
// first iteration is 1
func getExpBackoff(initialDelay time.Duration, iteration int) time.Duration {
	if iteration <= 1 {
		return initialDelay
	}
	return time.Duration(math.Pow(2, float64(iteration-1))) * initialDelay
}
