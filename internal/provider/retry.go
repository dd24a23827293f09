package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	retryBaseDelay = 250 * time.Millisecond
	retryMaxDelay  = 4 * time.Second
)

// sleep is swapped in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withRetry runs fn up to 1+retries times with exponential backoff while the
// error stays retryable.
func withRetry(ctx context.Context, retries int, fn func(context.Context) error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= retries || !retryable(err) {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", delay).Msg("provider: retrying request")
		if serr := sleep(ctx, delay); serr != nil {
			return err
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
}
