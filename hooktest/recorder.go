package hooktest

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/xmidt-org/httphook"
)

// Notification is a single observer callback captured by a Recorder.  Exactly one
// of Start or End is set, depending on Event.
type Notification struct {
	Event     httphook.Event
	RequestID uuid.UUID
	Start     *httphook.StartData
	End       *httphook.EndData
}

// Recorder is an httphook.Observer that records every notification in the order
// it was received.  The zero value is ready to use, and a Recorder is safe for
// concurrent requests.
type Recorder struct {
	lock          sync.Mutex
	notifications []Notification
}

var _ httphook.Observer = (*Recorder)(nil)

// OnRequestStarted records the start of a request.
func (r *Recorder) OnRequestStarted(d httphook.StartData) {
	// the request belongs to the hook, so don't hang onto it
	d.Request = nil

	r.lock.Lock()
	r.notifications = append(r.notifications, Notification{
		Event:     httphook.EventStarted,
		RequestID: d.RequestID,
		Start:     &d,
	})

	r.lock.Unlock()
}

// OnRequestEnded records the end of a request.
func (r *Recorder) OnRequestEnded(d httphook.EndData) {
	d.Request = nil

	r.lock.Lock()
	r.notifications = append(r.notifications, Notification{
		Event:     httphook.EventEnded,
		RequestID: d.RequestID,
		End:       &d,
	})

	r.lock.Unlock()
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Len returns the count of notifications recorded so far.
func (r *Recorder) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.notifications)
}

// Started returns the StartData of each recorded start, in order.
func (r *Recorder) Started() (started []httphook.StartData) {
	for _, n := range r.Notifications() {
		if n.Start != nil {
			started = append(started, *n.Start)
		}
	}

	return
}

// Ended returns the EndData of each recorded end, in order.
func (r *Recorder) Ended() (ended []httphook.EndData) {
	for _, n := range r.Notifications() {
		if n.End != nil {
			ended = append(ended, *n.End)
		}
	}

	return
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.lock.Lock()
	r.notifications = nil
	r.lock.Unlock()
}

// Flags is an httphook.Observer that only remembers whether it has seen a start
// and whether it saw an end after that.  It exists to verify that state set in
// OnRequestStarted is visible in OnRequestEnded.
type Flags struct {
	started atomic.Bool
	ended   atomic.Bool
}

var _ httphook.Observer = (*Flags)(nil)

// OnRequestStarted sets the started flag.
func (f *Flags) OnRequestStarted(httphook.StartData) {
	f.started.Store(true)
}

// OnRequestEnded sets the ended flag, but only if the started flag is already set.
func (f *Flags) OnRequestEnded(httphook.EndData) {
	if f.started.Load() {
		f.ended.Store(true)
	}
}

// Started tests if OnRequestStarted has been called.
func (f *Flags) Started() bool {
	return f.started.Load()
}

// Ended tests if OnRequestEnded has been called after OnRequestStarted.
func (f *Flags) Ended() bool {
	return f.ended.Load()
}

// Panicker is an httphook.Observer whose callbacks panic with Value.
type Panicker struct {
	Value interface{}
}

var _ httphook.Observer = Panicker{}

// OnRequestStarted panics.
func (p Panicker) OnRequestStarted(httphook.StartData) {
	panic(p.Value)
}

// OnRequestEnded panics.
func (p Panicker) OnRequestEnded(httphook.EndData) {
	panic(p.Value)
}
