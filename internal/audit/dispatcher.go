package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type Event struct {
	SessionID uint
	ActorID   uint
	Activity  string
	Notes     string
	Metadata  any
}

// Dispatcher writes activities off the request path. A full queue drops the
// event: the trail must never fail a committed operation.
type Dispatcher struct {
	logger *Logger
	queue  chan Event
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if _, err := d.logger.Log(
			context.Background(),
			ev.SessionID,
			ev.ActorID,
			ev.Activity,
			ev.Notes,
			ev.Metadata,
		); err != nil {
			log.Error().Err(err).
				Uint("session_id", ev.SessionID).
				Str("activity", ev.Activity).
				Msg("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		log.Warn().
			Uint("session_id", ev.SessionID).
			Str("activity", ev.Activity).
			Msg("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
