package sim

import (
	"testing"

	"github.com/tracerfps/tracer/shared/messages"
)

func TestQueueBoundsInputsButKeepsLifecycle(t *testing.T) {
	stats := &Stats{}
	q := NewQueue(2, stats)

	if !q.Push(1, messages.MovementInput{}) || !q.Push(1, messages.MovementInput{}) {
		t.Fatalf("pushes under the limit should succeed")
	}
	if q.Push(1, messages.MovementInput{}) {
		t.Fatalf("push over the limit should drop")
	}
	q.PushLifecycle(2, Connected{})
	q.PushLifecycle(1, Disconnected{})

	items := q.Drain()
	if len(items) != 4 {
		t.Fatalf("drained %d items, want 4", len(items))
	}
	if _, ok := items[2].Msg.(Connected); !ok || items[2].Conn != 2 {
		t.Fatalf("item 2 = %+v, want Connected from 2", items[2])
	}
	if _, ok := items[3].Msg.(Disconnected); !ok {
		t.Fatalf("item 3 = %+v, want Disconnected", items[3])
	}
	if stats.QueueDropped.Load() != 1 {
		t.Fatalf("dropped = %d, want 1", stats.QueueDropped.Load())
	}

	if !q.Push(1, messages.MovementInput{}) {
		t.Fatalf("limit should reset after Drain")
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d, want 1", q.Len())
	}
}
