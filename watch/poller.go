// Package watch polls Seesaw inputs on a schedule and publishes every change
// to a Hub. All polling happens on the Run goroutine, so sources never race
// each other on the bus.
package watch

import (
	"container/heap"
	"context"
	"math/rand"
	"sync"
	"time"
)

// Reading is one named value reported by a Source.
type Reading struct {
	Key   string
	Value any // must be comparable
}

// Source reads the current state of one input group.
type Source interface {
	Poll(ctx context.Context) ([]Reading, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Reading, error)

func (f SourceFunc) Poll(ctx context.Context) ([]Reading, error) { return f(ctx) }

type pollItem struct {
	name   string
	src    Source
	due    int64
	every  time.Duration
	jitter time.Duration
	index  int
	last   map[string]any
	failed bool
}

type pollHeap []*pollItem

func (h pollHeap) Len() int           { return len(h) }
func (h pollHeap) Less(i, j int) bool { return h[i].due < h[j].due }
func (h pollHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *pollHeap) Push(x any)        { it := x.(*pollItem); it.index = len(*h); *h = append(*h, it) }
func (h *pollHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	it.index = -1
	*h = old[:n-1]
	return it
}
func (h pollHeap) Top() *pollItem {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}

// Poller fires sources when due and publishes changed readings as
// Topic{name, key}. A failed poll is published as Topic{name, "error"}
// once, until the source recovers.
type Poller struct {
	mu    sync.Mutex
	wake  chan struct{}
	items map[string]*pollItem
	h     pollHeap
	rand  *rand.Rand
	hub   *Hub
	now   func() time.Time
}

func NewPoller(hub *Hub) *Poller {
	return &Poller{
		wake:  make(chan struct{}, 1),
		items: make(map[string]*pollItem),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		hub:   hub,
		now:   time.Now,
	}
}

// Add schedules src under name, replacing any source of that name. The
// first poll is immediate; later ones follow every plus [0..jitter].
func (p *Poller) Add(name string, src Source, every, jitter time.Duration) {
	if every <= 0 || src == nil {
		return
	}
	if jitter < 0 {
		jitter = 0
	}
	p.mu.Lock()
	if it := p.items[name]; it != nil {
		heap.Remove(&p.h, it.index)
	}
	it := &pollItem{
		name:   name,
		src:    src,
		due:    p.now().UnixNano(),
		every:  every,
		jitter: jitter,
		index:  -1,
		last:   map[string]any{},
	}
	p.items[name] = it
	heap.Push(&p.h, it)
	p.mu.Unlock()
	p.wakeup()
}

func (p *Poller) Remove(name string) {
	p.mu.Lock()
	if it := p.items[name]; it != nil {
		heap.Remove(&p.h, it.index)
		delete(p.items, name)
	}
	p.mu.Unlock()
	p.wakeup()
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		wait := p.nextWait()
		if wait < 0 {
			select {
			case <-ctx.Done():
				return
			case <-p.wake:
				continue
			}
		}
		if wait == 0 {
			var fire *pollItem

			p.mu.Lock()
			top := p.h.Top()
			if top != nil && top.due <= p.now().UnixNano() {
				fire = heap.Pop(&p.h).(*pollItem)
				fire.due = p.now().Add(p.jittered(fire.every, fire.jitter)).UnixNano()
				heap.Push(&p.h, fire)
			}
			p.mu.Unlock()

			if fire != nil {
				p.poll(ctx, fire)
			}
			if ctx.Err() != nil {
				return
			}
			continue
		}

		timer.Reset(time.Duration(wait))
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			if !timer.Stop() {
				<-timer.C
			}
		case <-timer.C:
		}
	}
}

// poll runs outside the lock; only Run touches last and failed.
func (p *Poller) poll(ctx context.Context, it *pollItem) {
	rs, err := it.src.Poll(ctx)
	at := p.now()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if !it.failed {
			it.failed = true
			p.hub.Publish(&Event{Topic: Topic{it.name, "error"}, Err: err, At: at})
		}
		return
	}
	it.failed = false
	for _, r := range rs {
		if prev, ok := it.last[r.Key]; ok && prev == r.Value {
			continue
		}
		it.last[r.Key] = r.Value
		p.hub.Publish(&Event{Topic: Topic{it.name, r.Key}, Value: r.Value, At: at})
	}
}

func (p *Poller) nextWait() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	top := p.h.Top()
	if top == nil {
		return -1
	}
	now := p.now().UnixNano()
	if top.due <= now {
		return 0
	}
	return top.due - now
}

func (p *Poller) wakeup() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Poller) jittered(interval, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return interval
	}
	return interval + time.Duration(p.rand.Int63n(int64(jitter)+1))
}
