package seesaw

import (
	"context"

	"tinygo.org/x/drivers"
)

// BusWorker owns a blocking bus and serialises all transfers on a single
// goroutine. Its TxContext lets a suspending Transport run on top of any
// drivers.I2C: callers park on a channel instead of inside the bus driver,
// so they can be cancelled while a transfer is queued or in flight.
//
// A transfer that was already handed to the bus completes even if its caller
// gave up; the caller just does not see the result.
type BusWorker struct {
	bus  drivers.I2C
	jobs chan *busJob
	done chan struct{}
}

type busJob struct {
	addr uint16
	w, r []byte
	res  chan error // buffered: the worker never blocks on an abandoned job
}

// NewBusWorker creates a worker with the given queue length (default 8).
func NewBusWorker(bus drivers.I2C, queueLen int) *BusWorker {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &BusWorker{
		bus:  bus,
		jobs: make(chan *busJob, queueLen),
		done: make(chan struct{}),
	}
}

// Start runs the worker loop until ctx is done.
func (b *BusWorker) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case <-ctx.Done():
				return
			case j := <-b.jobs:
				j.res <- b.bus.Tx(j.addr, j.w, j.r)
			}
		}
	}()
}

// Tx is the blocking form, so a BusWorker can stand in wherever a
// drivers.I2C is expected.
func (b *BusWorker) Tx(addr uint16, w, r []byte) error {
	return b.TxContext(context.Background(), addr, w, r)
}

// TxContext queues one transfer and waits for it, for ctx, or for the
// worker to stop.
func (b *BusWorker) TxContext(ctx context.Context, addr uint16, w, r []byte) error {
	j := &busJob{addr: addr, res: make(chan error, 1)}
	if len(w) > 0 {
		j.w = append([]byte(nil), w...)
	}
	if r != nil {
		j.r = make([]byte, len(r))
	}

	select {
	case b.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrWorkerStopped
	}

	select {
	case err := <-j.res:
		if err == nil {
			copy(r, j.r)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		// The loop may have finished our job just before stopping.
		select {
		case err := <-j.res:
			if err == nil {
				copy(r, j.r)
			}
			return err
		default:
			return ErrWorkerStopped
		}
	}
}
