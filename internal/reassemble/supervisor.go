package reassemble

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/shiryu-mmt/marketreplay/internal/obslog"
	"github.com/shiryu-mmt/marketreplay/internal/ratelimit"
)

// Worker owns one (interface, replica) connection slot in the supervisor's
// pool: it dials, reads until the connection fails or ctx is cancelled,
// and reconnects forever, rate-limited and breaker-protected so a
// persistently failing endpoint doesn't redial in a tight loop.
type Worker struct {
	id      int
	dialer  *ratelimit.Dialer
	breaker *gobreaker.CircuitBreaker[any]
	log     zerolog.Logger
}

// NewWorker builds a supervised connection worker. dialer is shared
// across every worker in the pool — it is the thing that actually
// enforces "no more than one dial per interval" globally.
func NewWorker(id int, dialer *ratelimit.Dialer, log zerolog.Logger) *Worker {
	settings := gobreaker.Settings{
		Name: fmt.Sprintf("reassemble-worker-%d", id),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return &Worker{
		id:      id,
		dialer:  dialer,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		log:     log.With().Int("worker", id).Logger(),
	}
}

// RunForever connects and reads in a loop until ctx is cancelled. connect
// opens a connection; read drains it until it closes or errors. Both a
// connect failure and a read failure count as one circuit-breaker
// failure and trigger a reconnect after the next rate-limited slot.
func (w *Worker) RunForever(ctx context.Context, connect func(context.Context) (io.Closer, error), read func(context.Context, io.Closer) error) {
	for ctx.Err() == nil {
		if err := w.dialer.Wait(ctx); err != nil {
			return
		}
		obslog.ReconnectAttempts.WithLabelValues(fmt.Sprintf("%d", w.id)).Inc()
		_, err := w.breaker.Execute(func() (any, error) {
			conn, err := connect(ctx)
			if err != nil {
				return nil, err
			}
			defer conn.Close()
			return nil, read(ctx, conn)
		})
		if err != nil {
			w.log.Warn().Err(err).Msg("connection failed, will retry")
		}
	}
}
