package httphook

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
)

// Event identifies which Observer callback is being dispatched.
type Event string

const (
	// EventStarted identifies Observer.OnRequestStarted.
	EventStarted Event = "started"

	// EventEnded identifies Observer.OnRequestEnded.
	EventEnded Event = "ended"
)

// Observers is an ordered sequence of Observer instances.  The order of
// this slice is the order in which observers are notified.
type Observers []Observer

// Append returns a new Observers with the given instances added to the end.
// The returned slice never shares storage with this one, so appending to
// an Observers held by a running Hook cannot affect it.
func (os Observers) Append(more ...Observer) Observers {
	c := make(Observers, 0, len(os)+len(more))
	c = append(c, os...)
	return append(c, more...)
}

// Len returns the count of observers in this sequence.
func (os Observers) Len() int {
	return len(os)
}

// ObserverPanic describes a panic raised by an Observer callback.  The panic is
// recovered, so the request and any remaining observers are unaffected.
type ObserverPanic struct {
	// Index is the registration position of the observer that panicked.
	Index int

	// Observer is the instance that panicked.
	Observer Observer

	// Event is the callback that panicked.
	Event Event

	// RequestID is the identifier of the request being dispatched.
	RequestID uuid.UUID

	// Value is the argument passed to panic.
	Value interface{}

	// Stack is the debug stack captured at recovery.
	Stack []byte
}

// OnObserverPanic is a callback notified whenever an observer panics.  These
// callbacks run on the request goroutine and must not panic themselves.
type OnObserverPanic func(ObserverPanic)

// dispatcher fans events out to observers, isolating each one.
type dispatcher struct {
	observers Observers
	logger    *slog.Logger
	onPanic   []OnObserverPanic
}

func (d *dispatcher) started(sd StartData) {
	for i, o := range d.observers {
		d.invoke(i, o, EventStarted, sd.RequestID, func() {
			o.OnRequestStarted(sd)
		})
	}
}

func (d *dispatcher) ended(ed EndData) {
	for i, o := range d.observers {
		d.invoke(i, o, EventEnded, ed.RequestID, func() {
			o.OnRequestEnded(ed)
		})
	}
}

func (d *dispatcher) invoke(i int, o Observer, e Event, id uuid.UUID, f func()) {
	defer func() {
		if r := recover(); r != nil {
			d.report(ObserverPanic{
				Index:     i,
				Observer:  o,
				Event:     e,
				RequestID: id,
				Value:     r,
				Stack:     debug.Stack(),
			})
		}
	}()

	f()
}

func (d *dispatcher) report(op ObserverPanic) {
	d.logger.Error(
		"observer panicked",
		slog.Int("index", op.Index),
		slog.String("observer", fmt.Sprintf("%T", op.Observer)),
		slog.String("event", string(op.Event)),
		slog.String("requestID", op.RequestID.String()),
		slog.Any("panic", op.Value),
	)

	for _, f := range d.onPanic {
		f(op)
	}
}
