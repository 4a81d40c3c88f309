package workpool

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitAndFlush(t *testing.T) {
	p := New(2, 16)
	defer p.Close()

	var ran atomic.Int32
	for i := 0; i < 10; i++ {
		p.Submit(func() { ran.Add(1) })
	}
	p.Flush()

	if got := ran.Load(); got != 10 {
		t.Fatalf("expected 10 tasks to run, got %d", got)
	}
}

func TestFlushConcurrentWithSubmit(t *testing.T) {
	// Depth covers every submission so none are dropped as queue-full.
	p := New(2, 512)
	defer p.Close()

	var ran atomic.Int32
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for i := 0; i < 500; i++ {
			p.Submit(func() { ran.Add(1) })
		}
	}()

	// Flush while submissions are still arriving.
	for {
		select {
		case <-submitted:
			p.Flush()
			if got := ran.Load(); got != 500 {
				t.Fatalf("expected 500 tasks to run, got %d", got)
			}
			return
		default:
			p.Flush()
		}
	}
}

func TestSubmitNeverBlocksWhenSaturated(t *testing.T) {
	p := New(1, 1)
	defer p.Close()

	block := make(chan struct{})
	p.Submit(func() { <-block })
	// Fill the queue; everything past this point has nowhere to go.
	p.Submit(func() {})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			p.Submit(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a saturated queue")
	}
	close(block)
}

func TestSubmitAfterCloseDrops(t *testing.T) {
	p := New(1, 4)

	var ran atomic.Int32
	p.Submit(func() { ran.Add(1) })
	p.Close()

	p.Submit(func() { ran.Add(1) })
	if got := ran.Load(); got != 1 {
		t.Fatalf("expected 1 task to run, got %d", got)
	}
}

func TestCloseDrainsQueued(t *testing.T) {
	p := New(1, 16)

	var ran atomic.Int32
	for i := 0; i < 8; i++ {
		p.Submit(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		})
	}
	p.Close()

	if got := ran.Load(); got != 8 {
		t.Fatalf("expected queued tasks to drain on close, ran %d of 8", got)
	}
}
