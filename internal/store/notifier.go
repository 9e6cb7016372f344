package store

import (
	"sync"

	"go.uber.org/zap"
)

// Listener is a zero-argument callback registered with the Notifier.
// Listeners re-fetch whatever state they render; no payload is carried.
type Listener func()

type subscription struct {
	id int
	fn Listener
}

// Notifier is the in-process publish/subscribe bus used to refresh views
// after a mutation elsewhere. Mutating operations publish; interested views
// subscribe and re-read.
type Notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscription
	logger    *zap.Logger
}

// NewNotifier returns an empty notifier.
func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger}
}

// Subscribe registers fn and returns a disposer that removes exactly this
// registration. The disposer is idempotent; calling it twice is a no-op.
func (n *Notifier) Subscribe(fn Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription{id: id, fn: fn})

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, sub := range n.listeners {
			if sub.id == id {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish synchronously invokes every currently-registered listener in
// registration order. Listeners registered while a publish is in flight are
// picked up by the next publish. A panicking listener is isolated so the
// remaining listeners still run.
func (n *Notifier) Publish() {
	n.mu.Lock()
	subs := make([]subscription, len(n.listeners))
	copy(subs, n.listeners)
	n.mu.Unlock()

	for _, sub := range subs {
		n.invoke(sub)
	}
}

func (n *Notifier) invoke(sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("Listener panicked during publish",
				zap.Int("listener", sub.id), zap.Any("panic", r))
		}
	}()
	sub.fn()
}
