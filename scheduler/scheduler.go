// scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleAfter is how long a claimed notification job may sit in "sending"
// before the sweep hands it to a worker again.
const StaleAfter = 5 * time.Minute

// Requeuer is implemented by *notify.Dispatcher.
type Requeuer interface {
	RequeuePending(ctx context.Context, staleAfter time.Duration) (int, error)
}

// StartScheduler runs the notification sweep on spec (with seconds). The
// caller stops the returned cron.
func StartScheduler(spec string, dispatcher Requeuer, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		Sweep(context.Background(), dispatcher, log)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	log.Info("scheduler started", zap.String("spec", spec))
	return c, nil
}

// Sweep offers leftover notification jobs to the dispatcher once.
func Sweep(ctx context.Context, dispatcher Requeuer, log *zap.Logger) {
	n, err := dispatcher.RequeuePending(ctx, StaleAfter)
	if err != nil {
		log.Error("notification sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("notification sweep requeued jobs", zap.Int("count", n))
	}
}
