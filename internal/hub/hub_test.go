package hub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := New()

	chA := h.Subscribe("display-a")
	chB := h.Subscribe("display-b")

	h.Broadcast("새로운 주문이 들어왔습니다")

	require.Equal(t, "새로운 주문이 들어왔습니다", <-chA)
	require.Equal(t, "새로운 주문이 들어왔습니다", <-chB)
}

func TestUnsubscribedClientGetsNothing(t *testing.T) {
	h := New()

	chA := h.Subscribe("display-a")
	chB := h.Subscribe("display-b")
	h.Unsubscribe("display-a")

	h.Broadcast("msg")

	_, open := <-chA
	require.False(t, open)
	require.Equal(t, "msg", <-chB)
	require.Equal(t, 1, h.Len())
}

func TestSubscribeIsIdempotentPerHandle(t *testing.T) {
	h := New()

	first := h.Subscribe("display-a")
	second := h.Subscribe("display-a")

	require.Equal(t, 1, h.Len())

	h.Broadcast("once")
	require.Equal(t, "once", <-first)
	select {
	case extra := <-second:
		t.Fatalf("duplicate delivery: %q", extra)
	default:
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := New()

	h.Subscribe("display-a")
	h.Unsubscribe("display-a")
	h.Unsubscribe("display-a")
	h.Unsubscribe("never-registered")

	require.Equal(t, 0, h.Len())
}

func TestBroadcastWithoutSubscribersIsNoop(t *testing.T) {
	h := New()
	h.Broadcast("nobody is listening")
}

func TestSlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	h := New()

	slow := h.Subscribe("slow")
	fast := h.Subscribe("fast")

	total := subscriberBuffer + 4
	for i := 0; i < total; i++ {
		h.Broadcast("msg")
		// fast client drains immediately
		require.Equal(t, "msg", <-fast)
	}

	// the slow client kept only what fit into its buffer
	require.Equal(t, subscriberBuffer, len(slow))
}
