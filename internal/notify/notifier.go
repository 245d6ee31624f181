// Package notify holds the single transient notification shown to the user.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a notification for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Notification is the currently visible message.
type Notification struct {
	Seq     uint64 `json:"seq"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// AfterFunc schedules f after d. It matches time.AfterFunc so tests can
// substitute a manual clock.
type AfterFunc func(d time.Duration, f func())

// Notifier keeps at most one notification. A newer notification replaces the
// current one immediately; expiry timers are never cancelled, but a timer only
// clears the notification it was armed for.
type Notifier struct {
	mu          sync.Mutex
	current     *Notification
	seq         uint64
	duration    time.Duration
	afterFunc   AfterFunc
	subscribers map[int]func(*Notification)
	nextSubID   int
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithDuration overrides the auto-dismiss delay.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.duration = d
		}
	}
}

// WithAfterFunc injects the timer used for auto-dismiss.
func WithAfterFunc(fn AfterFunc) Option {
	return func(n *Notifier) {
		if fn != nil {
			n.afterFunc = fn
		}
	}
}

func New(opts ...Option) *Notifier {
	n := &Notifier{
		duration: DefaultDuration,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		subscribers: make(map[int]func(*Notification)),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify shows message with the default duration.
func (n *Notifier) Notify(message string, kind Kind) Notification {
	return n.NotifyFor(message, kind, n.duration)
}

// NotifyFor shows message and schedules its dismissal after d.
func (n *Notifier) NotifyFor(message string, kind Kind, d time.Duration) Notification {
	if d <= 0 {
		d = n.duration
	}
	n.mu.Lock()
	n.seq++
	note := Notification{Seq: n.seq, Message: message, Kind: kind}
	n.current = &note
	subs := n.snapshotSubscribersLocked()
	n.mu.Unlock()

	publish(subs, &note)

	seq := note.Seq
	n.afterFunc(d, func() { n.expire(seq) })
	return note
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss clears the visible notification.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	subs := n.snapshotSubscribersLocked()
	n.mu.Unlock()
	publish(subs, nil)
}

// Subscribe registers fn to receive every change; nil means cleared. The
// returned function removes the subscription.
func (n *Notifier) Subscribe(fn func(*Notification)) func() {
	n.mu.Lock()
	id := n.nextSubID
	n.nextSubID++
	n.subscribers[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.Seq != seq {
		n.mu.Unlock()
		return
	}
	n.current = nil
	subs := n.snapshotSubscribersLocked()
	n.mu.Unlock()
	publish(subs, nil)
}

func (n *Notifier) snapshotSubscribersLocked() []func(*Notification) {
	out := make([]func(*Notification), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		out = append(out, fn)
	}
	return out
}

func publish(subs []func(*Notification), note *Notification) {
	for _, fn := range subs {
		if note == nil {
			fn(nil)
			continue
		}
		cp := *note
		fn(&cp)
	}
}
