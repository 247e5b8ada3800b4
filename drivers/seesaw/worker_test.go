package seesaw

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// gateBus blocks every Tx until released and tracks concurrency.
type gateBus struct {
	mu      sync.Mutex
	active  int
	maxSeen int
	calls   int
	gate    chan struct{}
	started chan struct{}
}

func newGateBus() *gateBus {
	return &gateBus{gate: make(chan struct{}), started: make(chan struct{}, 16)}
}

func (g *gateBus) Tx(addr uint16, w, r []byte) error {
	g.mu.Lock()
	g.active++
	g.calls++
	if g.active > g.maxSeen {
		g.maxSeen = g.active
	}
	g.mu.Unlock()
	g.started <- struct{}{}

	<-g.gate
	for i := range r {
		r[i] = 0xAB
	}

	g.mu.Lock()
	g.active--
	g.mu.Unlock()
	return nil
}

func TestBusWorker_Serialises(t *testing.T) {
	g := newGateBus()
	w := NewBusWorker(g, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := make([]byte, 2)
			if err := w.TxContext(context.Background(), 0x49, []byte{1}, r); err != nil {
				t.Error(err)
			}
			if r[0] != 0xAB {
				t.Error("result not copied back")
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-g.started
		g.gate <- struct{}{}
	}
	wg.Wait()

	if g.maxSeen != 1 || g.calls != 4 {
		t.Fatalf("maxSeen=%d calls=%d", g.maxSeen, g.calls)
	}
}

func TestBusWorker_AbandonedCaller(t *testing.T) {
	g := newGateBus()
	w := NewBusWorker(g, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	cctx, ccancel := context.WithCancel(context.Background())
	r := []byte{0, 0}
	errc := make(chan error, 1)
	go func() { errc <- w.TxContext(cctx, 0x49, nil, r) }()

	<-g.started
	ccancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	g.gate <- struct{}{} // the in-flight transfer still completes

	// The abandoned buffer is never written.
	if r[0] != 0 {
		t.Fatal("abandoned caller's buffer was written")
	}

	// The worker is still usable.
	go func() { <-g.started; g.gate <- struct{}{} }()
	if err := w.Tx(0x49, []byte{1}, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBusWorker_Stopped(t *testing.T) {
	w := NewBusWorker(newGateBus(), 0)
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	<-w.done

	// Fill the queue so the submit select can only see done.
	for i := 0; i < cap(w.jobs); i++ {
		w.jobs <- &busJob{res: make(chan error, 1)}
	}
	done := make(chan error, 1)
	go func() { done <- w.TxContext(context.Background(), 0x49, []byte{1}, nil) }()
	select {
	case err := <-done:
		if !errors.Is(err, ErrWorkerStopped) {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("TxContext hung on a stopped worker")
	}
}

func TestBusWorker_UnderSuspendingTransport(t *testing.T) {
	f := newFakeBus()
	w := NewBusWorker(f, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	tr := NewContextTransport(w, f)
	if err := tr.WriteU16(ctx, 0x49, testReg, 0x1234); err != nil {
		t.Fatal(err)
	}
	if v, err := tr.ReadU16(ctx, 0x49, testReg); err != nil || v != 0x1234 {
		t.Fatalf("ReadU16 = %#x, %v", v, err)
	}
}
