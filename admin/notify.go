package admin

import (
	"sync"
	"time"
)

// DefaultToastDuration is how long a toast stays visible unless dismissed.
const DefaultToastDuration = 3 * time.Second

// ToastKind classifies a notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Toast is one transient status message.
type Toast struct {
	ID      uint64
	Message string
	Kind    ToastKind
	ShownAt time.Time
}

// Notifier keeps a single visible toast. A newer toast replaces the current
// one and every toast dismisses itself after the configured duration.
type Notifier struct {
	mu          sync.Mutex
	duration    time.Duration
	current     *Toast
	seq         uint64
	timer       *time.Timer
	subscribers []func(t Toast, visible bool)
}

// NewNotifier creates a notifier. A non-positive duration uses
// DefaultToastDuration.
func NewNotifier(duration time.Duration) *Notifier {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &Notifier{duration: duration}
}

// Subscribe registers fn to be called when a toast appears (visible=true)
// or goes away (visible=false).
func (n *Notifier) Subscribe(fn func(t Toast, visible bool)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// Show replaces the visible toast with a new one.
func (n *Notifier) Show(message string, kind ToastKind) Toast {
	n.mu.Lock()
	n.seq++
	t := Toast{ID: n.seq, Message: message, Kind: kind, ShownAt: time.Now()}
	n.current = &t
	if n.timer != nil {
		n.timer.Stop()
	}
	id := t.ID
	n.timer = time.AfterFunc(n.duration, func() { n.expire(id) })
	subs := n.snapshot()
	n.mu.Unlock()

	for _, fn := range subs {
		fn(t, true)
	}
	return t
}

func (n *Notifier) Success(message string) Toast { return n.Show(message, ToastSuccess) }
func (n *Notifier) Error(message string) Toast { return n.Show(message, ToastError) }
func (n *Notifier) Info(message string) Toast { return n.Show(message, ToastInfo) }

// Current returns the visible toast, if any.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	return *n.current, true
}

// Dismiss closes the visible toast before its timer fires.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	n.expireLocked()
}

// expire only dismisses the toast it was scheduled for; a replaced toast's
// timer is a no-op.
func (n *Notifier) expire(id uint64) {
	n.mu.Lock()
	if n.current == nil || n.current.ID != id {
		n.mu.Unlock()
		return
	}
	n.expireLocked()
}

// expireLocked must be called with mu held and releases it.
func (n *Notifier) expireLocked() {
	t := *n.current
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	subs := n.snapshot()
	n.mu.Unlock()

	for _, fn := range subs {
		fn(t, false)
	}
}

func (n *Notifier) snapshot() []func(Toast, bool) {
	return append([]func(Toast, bool){}, n.subscribers...)
}
