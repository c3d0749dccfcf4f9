package sheets

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
)

// defaultRetrySchedule is the fixed delay between attempts against the
// Sheets API: one initial attempt plus one retry per entry, ~7.5s of sleep
// worst case.
var defaultRetrySchedule = []time.Duration{
	250 * time.Millisecond,
	800 * time.Millisecond,
	2000 * time.Millisecond,
	4500 * time.Millisecond,
}

// scheduleBackOff replays a fixed delay schedule, then stops. BackOff
// implementations are stateful; always construct a fresh one per operation.
type scheduleBackOff struct {
	delays []time.Duration
	next   int
}

func (b *scheduleBackOff) NextBackOff() time.Duration {
	if b.next >= len(b.delays) {
		return backoff.Stop
	}
	d := b.delays[b.next]
	b.next++
	return d
}

func (b *scheduleBackOff) Reset() { b.next = 0 }

// withRetry runs op, retrying transient failures on the store's schedule.
// Non-retryable errors stop immediately; after the schedule is exhausted the
// last error propagates.
func (s *Store) withRetry(ctx context.Context, op func() error) error {
	bo := &scheduleBackOff{delays: s.retrySchedule}
	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(bo, ctx))
}

// isRetryable classifies an error as a transient remote failure: HTTP 429,
// any 5xx, or a message carrying a rate-limit/quota marker.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := err.(*googleapi.Error); ok {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "ratelimit", "quota", "resource_exhausted"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
