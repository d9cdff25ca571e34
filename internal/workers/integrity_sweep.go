package workers

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tripwise/prompt-svc/internal/models"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
)

// IntegritySweep reports trips left with fewer turns than a finished initial
// planning request writes. Writes are not transactional, so a failure midway
// through planning leaves such trips behind. The sweep only logs them.
type IntegritySweep struct {
	Trips   pgrepo.TripRepository
	Logger  logrus.FieldLogger
	Timeout time.Duration
}

// RunOnce performs one pass and returns the incomplete trips it found.
func (w *IntegritySweep) RunOnce(ctx context.Context) ([]models.IncompleteTrip, error) {
	if w.Trips == nil {
		return nil, errors.New("IntegritySweep missing dependency: Trips must be set")
	}
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	rows, err := w.Trips.ListIncomplete(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		w.logger().WithFields(logrus.Fields{
			"trip_id":       r.TripID,
			"message_count": r.MessageCount,
		}).Warn("trip is missing initial turns")
	}
	return rows, nil
}

// Schedule registers the sweep on c under the cron spec.
func (w *IntegritySweep) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		start := time.Now()
		rows, err := w.RunOnce(ctx)
		if err != nil {
			w.logger().WithError(err).Error("integrity sweep failed")
			return
		}
		w.logger().WithFields(logrus.Fields{
			"incomplete": len(rows),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("integrity sweep done")
	})
}

func (w *IntegritySweep) logger() logrus.FieldLogger {
	if w.Logger == nil {
		return logrus.StandardLogger()
	}
	return w.Logger
}
