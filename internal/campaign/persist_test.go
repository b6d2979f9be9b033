package campaign

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestPersisterDropsOldestWhenFull(t *testing.T) {
	p := newPersister(log.New(io.Discard), 2)

	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	var ran []string

	record := func(name string) func() error {
		return func() error {
			mu.Lock()
			ran = append(ran, name)
			mu.Unlock()
			return nil
		}
	}

	// Block the worker so the queue fills up behind it.
	p.Enqueue("blocker", func() error {
		close(started)
		<-release
		return nil
	})
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}

	p.Enqueue("a", record("a"))
	p.Enqueue("b", record("b"))
	p.Enqueue("c", record("c")) // Drops "a"

	close(release)
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(ran) != 2 || ran[0] != "b" || ran[1] != "c" {
		t.Errorf("ran = %v, expected [b c]", ran)
	}

	// Writes after Close are discarded
	p.Enqueue("late", record("late"))
	if len(ran) != 2 {
		t.Errorf("write after Close ran: %v", ran)
	}
}

func TestSchedulerOrderAndEpochs(t *testing.T) {
	var s scheduler
	var got []string
	add := func(at time.Duration, epoch uint64, name string) {
		s.After(t0.Add(at), epoch, func(time.Time) { got = append(got, name) })
	}

	add(2*time.Second, 1, "second")
	add(time.Second, 1, "first")
	add(time.Second, 0, "stale")
	add(5*time.Second, 1, "later")

	if n := s.Run(t0.Add(3*time.Second), 1); n != 2 {
		t.Errorf("fired %d calls, expected 2", n)
	}
	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("order = %v, expected [first second]", got)
	}
	if next, ok := s.Next(1); !ok || !next.Equal(t0.Add(5*time.Second)) {
		t.Errorf("Next = %v/%v, expected t0+5s", next, ok)
	}

	s.Clear()
	if _, ok := s.Next(1); ok {
		t.Error("Clear should drop pending calls")
	}
}

func TestPersisterFlushWaitsForQueuedWrites(t *testing.T) {
	p := newPersister(log.New(io.Discard), 8)
	defer p.Close()

	var mu sync.Mutex
	count := 0
	for i := 0; i < 3; i++ {
		p.Enqueue("write", func() error {
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 3 {
		t.Errorf("writes after Flush = %d, expected 3", count)
	}
}

func TestPersisterFlushKeepsQueuedWrites(t *testing.T) {
	p := newPersister(log.New(io.Discard), 2)
	defer p.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	var ran []string

	p.Enqueue("blocker", func() error {
		close(started)
		<-release
		return nil
	})
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not start")
	}

	for _, name := range []string{"best time", "leaderboard entry"} {
		p.Enqueue(name, func() error {
			mu.Lock()
			ran = append(ran, name)
			mu.Unlock()
			return nil
		})
	}

	flushed := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		flushed <- p.Flush(ctx)
	}()
	// Let Flush reach the full queue
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-flushed; err != nil {
		t.Fatalf("Flush() failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(ran) != 2 {
		t.Errorf("writes run before Flush returned = %v, expected both", ran)
	}
}

func TestPersisterEnqueueRacingClose(t *testing.T) {
	for round := 0; round < 50; round++ {
		p := newPersister(log.New(io.Discard), 64)

		var mu sync.Mutex
		accepted, ran := 0, 0
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok := p.Enqueue("write", func() error {
					mu.Lock()
					ran++
					mu.Unlock()
					return nil
				})
				if ok {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		p.Close()
		wg.Wait()

		mu.Lock()
		if ran != accepted {
			t.Fatalf("round %d: ran %d writes, accepted %d", round, ran, accepted)
		}
		mu.Unlock()
	}
}
