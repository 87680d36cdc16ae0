package hal

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultChunk is the largest slice handed to the bus in one Tx call.
const DefaultChunk = 4096

var errClosed = errors.New("async tx: closed")

// AsyncTx streams buffers over an SPI bus from a background goroutine, so the
// caller can render the next scanline while the previous one is on the wire.
//
// At most one transfer is in flight. Done is lock-free and safe to poll.
type AsyncTx struct {
	bus   SPI
	chunk int

	req  chan []byte
	quit chan struct{}

	busy   atomic.Bool
	abort  atomic.Bool
	closed atomic.Bool

	mu  sync.Mutex
	err error
}

// NewAsyncTx starts the transfer goroutine. chunk <= 0 selects DefaultChunk.
func NewAsyncTx(bus SPI, chunk int) *AsyncTx {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	a := &AsyncTx{
		bus:   bus,
		chunk: chunk,
		req:   make(chan []byte, 1),
		quit:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncTx) run() {
	for {
		select {
		case <-a.quit:
			return
		case buf := <-a.req:
			if err := a.send(buf); err != nil {
				a.mu.Lock()
				a.err = err
				a.mu.Unlock()
			}
			a.busy.Store(false)
		}
	}
}

func (a *AsyncTx) send(buf []byte) error {
	for off := 0; off < len(buf); off += a.chunk {
		if a.abort.Load() {
			return nil
		}
		end := min(off+a.chunk, len(buf))
		if err := a.bus.Tx(buf[off:end], nil); err != nil {
			return err
		}
	}
	return nil
}

// Start queues buf. It returns ErrBusy while a previous transfer is running.
func (a *AsyncTx) Start(buf []byte) error {
	if a.closed.Load() {
		return errClosed
	}
	if !a.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	a.abort.Store(false)
	a.req <- buf
	return nil
}

// Done reports whether the last transfer finished.
func (a *AsyncTx) Done() bool { return !a.busy.Load() }

// Wait yields until the last transfer finished.
func (a *AsyncTx) Wait() {
	for a.busy.Load() {
		runtime.Gosched()
	}
}

// Abort stops the running transfer at the next chunk boundary and waits for it.
func (a *AsyncTx) Abort() {
	if a.busy.Load() {
		a.abort.Store(true)
		a.Wait()
	}
}

// Err returns and clears the last bus error.
func (a *AsyncTx) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.err
	a.err = nil
	return err
}

// Close aborts any transfer and stops the goroutine.
func (a *AsyncTx) Close() {
	if a.closed.Swap(true) {
		return
	}
	a.Abort()
	close(a.quit)
}
