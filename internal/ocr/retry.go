// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/pdiddy/textract/pkg/types"
)

const defaultRetryDelay = time.Second

// Retrying retries failed recognitions with exponential backoff. It wraps
// the exec and container backends, whose process or container start can
// fail transiently.
type Retrying struct {
	next     Recognizer
	attempts uint
	delay    time.Duration
}

// WithRetry wraps next so that each recognition is tried up to retries+1
// times. The delay starts at delay and doubles on each attempt. With
// retries <= 0 next is returned unchanged.
func WithRetry(next Recognizer, retries int, delay time.Duration) Recognizer {
	if retries <= 0 {
		return next
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return &Retrying{next: next, attempts: uint(retries) + 1, delay: delay}
}

func (r *Retrying) Name() string { return r.next.Name() }

func (r *Retrying) Recognize(ctx context.Context, in Input) ([]types.Observation, error) {
	var obs []types.Observation
	err := retry.Do(
		func() error {
			var err error
			obs, err = r.next.Recognize(ctx, in)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return nil, err
	}
	return obs, nil
}

// retryable excludes failures that another attempt cannot fix.
func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, ErrMalformedTSV)
}
