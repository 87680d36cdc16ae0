package kernel

import (
	"runtime"
	"sync"
	"testing"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	mb := NewMailbox[int](4)

	if _, ok := mb.TryRecv(); ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	const slots = 4
	mb := NewMailbox[int](slots)

	for round := 0; round < 3; round++ {
		for i := 0; i < slots; i++ {
			if ok := mb.TrySend(i); !ok {
				t.Fatalf("round %d: TrySend() ok = false at slot %d, want true", round, i)
			}
		}
		if ok := mb.TrySend(slots); ok {
			t.Fatalf("round %d: TrySend() ok = true when full, want false", round)
		}
		if got := mb.Len(); got != slots {
			t.Fatalf("round %d: Len() = %d, want %d", round, got, slots)
		}
		for i := 0; i < slots; i++ {
			v, ok := mb.TryRecv()
			if !ok || v != i {
				t.Fatalf("round %d: TryRecv() = %d, %v, want %d, true", round, v, ok, i)
			}
		}
	}
}

func TestMailboxConcurrentProducers(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		producers = 4
		perProd   = 10_000
		total     = producers * perProd
	)

	mb := NewMailbox[uint32](8)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(producers)
	for producerID := 0; producerID < producers; producerID++ {
		go func(producerID int) {
			defer wg.Done()
			<-start
			for i := 0; i < perProd; i++ {
				mb.Send(uint32(producerID*perProd + i))
			}
		}(producerID)
	}
	close(start)

	seen := make([]bool, total)
	for i := 0; i < total; i++ {
		id := mb.Recv()
		if int(id) >= total {
			t.Fatalf("Recv() id = %d, want < %d", id, total)
		}
		if seen[id] {
			t.Fatalf("Recv() duplicate id %d", id)
		}
		seen[id] = true
	}

	wg.Wait()
}
