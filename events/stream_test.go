package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStream_EmitDeliversToAllSubscribers(t *testing.T) {
	s := NewStream[int]()

	var a, b []int
	s.Subscribe(func(v int) { a = append(a, v) })
	s.Subscribe(func(v int) { b = append(b, v) })

	s.Emit(1)
	s.Emit(2)

	require.Equal(t, []int{1, 2}, a)
	require.Equal(t, []int{1, 2}, b)
}

func TestStream_CancelStopsDelivery(t *testing.T) {
	s := NewStream[string]()

	var got []string
	cancel := s.Subscribe(func(v string) { got = append(got, v) })

	s.Emit("first")
	cancel()
	cancel() // second cancel is a no-op
	s.Emit("second")

	require.Equal(t, []string{"first"}, got)
	require.Zero(t, s.SubscriberCount())
}

func TestStream_CloseMakesStreamInert(t *testing.T) {
	s := NewStream[int]()

	calls := 0
	s.Subscribe(func(int) { calls++ })

	s.Close()
	s.Close() // idempotent
	s.Emit(1)

	require.Zero(t, calls)

	cancel := s.Subscribe(func(int) { calls++ })
	s.Emit(2)
	cancel()

	require.Zero(t, calls)
}

func TestStream_ReentrantUnsubscribe(t *testing.T) {
	s := NewStream[int]()

	calls := 0
	var cancel func()
	cancel = s.Subscribe(func(int) {
		calls++
		cancel()
	})

	s.Emit(1)
	s.Emit(2)

	require.Equal(t, 1, calls)
}
