package watch

import (
	"strings"
	"sync"
	"time"
)

// Topic is a path such as {"encoder", "position"}. In subscriptions "+"
// matches one level and a trailing "#" matches any remainder.
type Topic []string

func (t Topic) String() string { return strings.Join(t, "/") }

// Event is one observed value. The hub retains the last event per topic and
// replays it to new subscribers.
type Event struct {
	Topic Topic
	Value any
	Err   error
	At    time.Time
}

type Subscription struct {
	topic Topic
	ch    chan *Event
	hub   *Hub
}

func (s *Subscription) Topic() Topic           { return s.topic }
func (s *Subscription) Events() <-chan *Event { return s.ch }
func (s *Subscription) Close()                 { s.hub.unsubscribe(s) }

type node struct {
	children map[string]*node
	subs     []*Subscription
	retained *Event
}

// Hub fans events out to subscribers. A slow subscriber loses its oldest
// queued event, never blocks the publisher.
type Hub struct {
	mu   sync.Mutex
	root *node
	qLen int
}

// NewHub creates a hub with the given per-subscription queue length.
func NewHub(queueLen int) *Hub {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Hub{root: &node{}, qLen: queueLen}
}

func (h *Hub) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan *Event, h.qLen), hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	n := h.root
	for _, tok := range topic {
		if n.children == nil {
			n.children = map[string]*node{}
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.subs = append(n.subs, sub)

	// Replay the retained state the filter covers.
	h.walkRetained(h.root, topic, func(e *Event) { deliver(sub, e) })
	return sub
}

// Publish records e as the retained value of its topic and delivers it.
func (h *Hub) Publish(e *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.root
	for _, tok := range e.Topic {
		if n.children == nil {
			n.children = map[string]*node{}
		}
		child, ok := n.children[tok]
		if !ok {
			child = &node{}
			n.children[tok] = child
		}
		n = child
	}
	n.retained = e

	h.match(h.root, e.Topic, func(s *Subscription) { deliver(s, e) })
}

func deliver(s *Subscription, e *Event) {
	select {
	case s.ch <- e:
	default:
		// drop oldest
		select {
		case <-s.ch:
		default:
		}
		s.ch <- e
	}
}

// match calls fn for every subscription whose filter matches topic.
func (h *Hub) match(n *node, topic Topic, fn func(*Subscription)) {
	if c := n.children["#"]; c != nil {
		for _, s := range c.subs {
			fn(s)
		}
	}
	if len(topic) == 0 {
		for _, s := range n.subs {
			fn(s)
		}
		return
	}
	if c := n.children[topic[0]]; c != nil {
		h.match(c, topic[1:], fn)
	}
	if c := n.children["+"]; c != nil {
		h.match(c, topic[1:], fn)
	}
}

// walkRetained calls fn for each retained event under n matching filter.
func (h *Hub) walkRetained(n *node, filter Topic, fn func(*Event)) {
	if len(filter) == 0 {
		if n.retained != nil {
			fn(n.retained)
		}
		return
	}
	switch filter[0] {
	case "#":
		var all func(*node)
		all = func(m *node) {
			if m.retained != nil {
				fn(m.retained)
			}
			for _, c := range m.children {
				all(c)
			}
		}
		all(n)
	case "+":
		for _, c := range n.children {
			h.walkRetained(c, filter[1:], fn)
		}
	default:
		if c := n.children[filter[0]]; c != nil {
			h.walkRetained(c, filter[1:], fn)
		}
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.root
	for _, tok := range sub.topic {
		c := n.children[tok]
		if c == nil {
			return
		}
		n = c
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}
