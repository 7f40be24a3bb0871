package changefeed

import (
	"context"
	"sync"

	"skybook/internal/models"
)

// FlightEmitter fans flight row updates out to per-flight subscriber
// channels. Subscribers are SSE connections; each holds one channel for
// the lifetime of the stream.
type FlightEmitter struct {
	mu      sync.RWMutex
	clients map[string][]chan models.Flight
}

func NewFlightEmitter() *FlightEmitter {
	return &FlightEmitter{
		clients: make(map[string][]chan models.Flight),
	}
}

// Subscribe registers interest in one flight. The returned channel is
// closed and deregistered when ctx is cancelled, so a dropped connection
// cannot leak its channel.
func (e *FlightEmitter) Subscribe(ctx context.Context, flightID string) chan models.Flight {
	clientChan := make(chan models.Flight, 10)

	e.mu.Lock()
	e.clients[flightID] = append(e.clients[flightID], clientChan)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.remove(flightID, clientChan)
	}()

	return clientChan
}

// Emit delivers an updated flight row to every subscriber of that flight.
// Sends are non-blocking; a subscriber with a full buffer misses the
// event rather than stalling the feed.
func (e *FlightEmitter) Emit(flight models.Flight) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	// remove closes channels under the write lock, so holding the read
	// lock for the sends keeps them from racing a close.
	for _, clientChan := range e.clients[flight.ID] {
		select {
		case clientChan <- flight:
		default:
		}
	}
}

func (e *FlightEmitter) remove(flightID string, clientChan chan models.Flight) {
	e.mu.Lock()
	defer e.mu.Unlock()

	clients := e.clients[flightID]
	for i, ch := range clients {
		if ch == clientChan {
			e.clients[flightID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}

	if len(e.clients[flightID]) == 0 {
		delete(e.clients, flightID)
	}
}

// SubscriberCount reports how many streams are attached to a flight.
func (e *FlightEmitter) SubscriberCount(flightID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.clients[flightID])
}
