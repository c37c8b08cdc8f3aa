package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan string, 1)
	b.Subscribe(EventTermCommitted, func(e DomainEvent) {
		if ev, ok := e.(TermCommittedEvent); ok {
			got <- ev.Term
		}
	})

	b.Publish(TermCommittedEvent{Term: "dragon"})

	select {
	case term := <-got:
		assert.Equal(t, "dragon", term)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestUnsubscribeReleasesHandler(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	unsubscribe := b.Subscribe(EventWindowScrolled, func(DomainEvent) { calls.Add(1) })

	delivered := make(chan struct{}, 4)
	b.Subscribe(EventWindowScrolled, func(DomainEvent) { delivered <- struct{}{} })

	b.Publish(WindowScrolledEvent{})
	<-delivered
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	unsubscribe() // second call is a no-op

	b.Publish(WindowScrolledEvent{})
	<-delivered
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "unsubscribed handler must not run again")
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe(EventFetchFailed, func(DomainEvent) { panic("boom") })
	ok := make(chan struct{}, 1)
	b.Subscribe(EventConfigSaved, func(DomainEvent) { ok <- struct{}{} })

	b.Publish(FetchFailedEvent{Resource: "search"})
	b.Publish(ConfigSavedEvent{})

	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("dispatcher stopped after a handler panic")
	}
}
