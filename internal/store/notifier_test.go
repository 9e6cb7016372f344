package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPublishInvokesListenersInRegistrationOrder(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	var order []string
	n.Subscribe(func() { order = append(order, "first") })
	n.Subscribe(func() { order = append(order, "second") })
	n.Subscribe(func() { order = append(order, "third") })

	n.Publish()
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestUnsubscribeRemovesOnlyOwnListener(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	var calls []string
	n.Subscribe(func() { calls = append(calls, "keep-a") })
	cancel := n.Subscribe(func() { calls = append(calls, "drop") })
	n.Subscribe(func() { calls = append(calls, "keep-b") })

	cancel()
	n.Publish()
	assert.Equal(t, []string{"keep-a", "keep-b"}, calls)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	count := 0
	cancel := n.Subscribe(func() { count++ })
	n.Subscribe(func() { count += 10 })

	cancel()
	cancel()
	cancel()

	n.Publish()
	assert.Equal(t, 10, count)
}

func TestPanickingListenerDoesNotStarveTheRest(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	var survivors []string
	n.Subscribe(func() { panic("view exploded") })
	n.Subscribe(func() { survivors = append(survivors, "a") })
	n.Subscribe(func() { panic("another one") })
	n.Subscribe(func() { survivors = append(survivors, "b") })

	n.Publish()
	assert.Equal(t, []string{"a", "b"}, survivors)
}

func TestListenerAddedDuringPublishRunsNextPublish(t *testing.T) {
	n := NewNotifier(zap.NewNop())

	lateCalls := 0
	n.Subscribe(func() {
		n.Subscribe(func() { lateCalls++ })
	})

	n.Publish()
	assert.Equal(t, 0, lateCalls)

	n.Publish()
	assert.Equal(t, 1, lateCalls)
}
