package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"skybook/internal/logger"
	"skybook/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NotifyChannel is the Postgres NOTIFY channel the backend's row trigger
// publishes updated flight rows on.
const NotifyChannel = "flight_updates"

// Listener bridges the backend's change feed (Postgres LISTEN/NOTIFY with
// JSON row payloads) to the in-process emitter. A dropped connection stops
// delivery; there is no reconnection logic here.
type Listener struct {
	ln      *pgdriver.Listener
	emitter *FlightEmitter
	log     *logger.Logger
}

func NewListener(bunDB *bun.DB, emitter *FlightEmitter, log *logger.Logger) *Listener {
	return &Listener{
		ln:      pgdriver.NewListener(bunDB),
		emitter: emitter,
		log:     log,
	}
}

// Run listens until ctx is cancelled, decoding each notification payload
// as a flight row and handing it to the emitter.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.ln.Listen(ctx, NotifyChannel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}
	defer l.ln.Close()

	l.log.Info("CHANGEFEED", fmt.Sprintf("listening for flight updates on channel %q", NotifyChannel))

	for {
		select {
		case notif, ok := <-l.ln.Channel():
			if !ok {
				l.log.Warn("CHANGEFEED", "notification channel closed, delivery stopped")
				return nil
			}

			var flight models.Flight
			if err := json.Unmarshal([]byte(notif.Payload), &flight); err != nil {
				l.log.Error("CHANGEFEED", fmt.Sprintf("failed to decode notification payload: %v", err))
				continue
			}
			if flight.ID == "" {
				l.log.Warn("CHANGEFEED", "notification without flight id, dropped")
				continue
			}

			l.emitter.Emit(flight)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
