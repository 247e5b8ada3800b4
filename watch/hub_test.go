package watch

import (
	"testing"
	"time"
)

func expectValue(t *testing.T, s *Subscription, want any) {
	t.Helper()
	select {
	case e := <-s.Events():
		if e.Value != want {
			t.Fatalf("%v: got %v, want %v", s.Topic(), e.Value, want)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("%v: timeout waiting for %v", s.Topic(), want)
	}
}

func expectNone(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case e := <-s.Events():
		t.Fatalf("%v: unexpected event %v on %v", s.Topic(), e.Value, e.Topic)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHub_PublishSubscribe(t *testing.T) {
	h := NewHub(4)
	s := h.Subscribe(Topic{"encoder", "position"})
	h.Publish(&Event{Topic: Topic{"encoder", "position"}, Value: int32(3)})
	expectValue(t, s, int32(3))

	h.Publish(&Event{Topic: Topic{"encoder", "pressed"}, Value: true})
	expectNone(t, s)
}

func TestHub_RetainedReplay(t *testing.T) {
	h := NewHub(4)
	h.Publish(&Event{Topic: Topic{"encoder", "position"}, Value: int32(1)})
	h.Publish(&Event{Topic: Topic{"encoder", "position"}, Value: int32(2)})

	s := h.Subscribe(Topic{"encoder", "position"})
	expectValue(t, s, int32(2))
	expectNone(t, s)

	all := h.Subscribe(Topic{"#"})
	expectValue(t, all, int32(2))
}

func TestHub_Wildcards(t *testing.T) {
	h := NewHub(16)
	one := h.Subscribe(Topic{"+", "pressed"})
	rest := h.Subscribe(Topic{"encoder", "#"})
	no := h.Subscribe(Topic{"buttons", "+"})

	h.Publish(&Event{Topic: Topic{"encoder", "pressed"}, Value: true})
	expectValue(t, one, true)
	expectValue(t, rest, true)
	expectNone(t, no)

	h.Publish(&Event{Topic: Topic{"encoder", "position"}, Value: int32(7)})
	expectValue(t, rest, int32(7))
	expectNone(t, one)
}

func TestHub_DropOldest(t *testing.T) {
	h := NewHub(2)
	s := h.Subscribe(Topic{"gpio", "levels"})
	for i := uint32(1); i <= 5; i++ {
		h.Publish(&Event{Topic: Topic{"gpio", "levels"}, Value: i})
	}
	expectValue(t, s, uint32(4))
	expectValue(t, s, uint32(5))
	expectNone(t, s)
}

func TestHub_Close(t *testing.T) {
	h := NewHub(2)
	s := h.Subscribe(Topic{"a"})
	s.Close()
	h.Publish(&Event{Topic: Topic{"a"}, Value: 1})
	if _, ok := <-s.Events(); ok {
		t.Fatal("closed subscription still delivers")
	}
	if (Topic{"encoder", "position"}).String() != "encoder/position" {
		t.Fatal("topic string")
	}
}
