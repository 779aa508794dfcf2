package schedule

import (
	"context"
	"runtime/debug"

	"github.com/lightningnetwork/lnd/ticker"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "schedule")

// Every runs fn once right away and then on every tick of t until ctx is done.
// Runs are sequential, so a slow run delays the next one instead of
// overlapping it. A panic in fn is logged and does not stop the schedule.
// t is resumed by Every and stopped when it returns; the returned error is
// always ctx.Err().
func Every(ctx context.Context, t ticker.Ticker, fn func(context.Context)) error {
	t.Resume()
	defer t.Stop()

	runSafe(ctx, fn)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Ticks():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			runSafe(ctx, fn)
		}
	}
}

func runSafe(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("stack", string(debug.Stack())).Errorf("scheduled run panicked: %v", r)
		}
	}()
	fn(ctx)
}
