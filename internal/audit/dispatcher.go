package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const queueSize = 100

type Event struct {
	ActorID  *uint  `json:"actorId,omitempty"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID *uint  `json:"entityId,omitempty"`
	Metadata any    `json:"metadata,omitempty"`

	At time.Time `json:"at"`
}

// Sink receives dispatched events.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to its sinks on a background worker. A nil
// Dispatcher discards everything.
type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Record(ctx, ev); err != nil {
				log.Warn().Err(err).Str("action", ev.Action).Msg("audit sink failed")
			}
			cancel()
		}
	}
}

// Dispatch never blocks: when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
