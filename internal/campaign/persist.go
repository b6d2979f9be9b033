package campaign

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// persistJob is one deferred store write.
type persistJob struct {
	what string
	run  func() error
}

// persister runs store writes on a background goroutine so that slow or
// failing storage never stalls moves or ticks.
type persister struct {
	jobs   chan persistJob
	done   chan struct{}
	logger *log.Logger

	// mu orders Enqueue against Close so a write is either queued before
	// the final drain or rejected.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func newPersister(logger *log.Logger, buffer int) *persister {
	p := &persister{
		jobs:   make(chan persistJob, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// Enqueue schedules a write. It never blocks: if the buffer is full the
// oldest pending write is dropped. It reports false once the persister is closed.
func (p *persister) Enqueue(what string, run func() error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.logger.Warn("persister closed, dropping write", "write", what)
		return false
	}

	job := persistJob{what: what, run: run}
	select {
	case p.jobs <- job:
	default:
		// Buffer full, drop oldest and retry
		select {
		case old := <-p.jobs:
			p.logger.Warn("persistence queue full, dropping write", "write", old.what)
		default:
		}
		select {
		case p.jobs <- job:
		default:
		}
	}
	return true
}

func (p *persister) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			p.exec(job)
		case <-p.done:
			// Drain what is already queued
			for {
				select {
				case job := <-p.jobs:
					p.exec(job)
				default:
					return
				}
			}
		}
	}
}

func (p *persister) exec(job persistJob) {
	if err := job.run(); err != nil {
		p.logger.Warn("persistence failed", "write", job.what, "err", err)
		return
	}
	p.logger.Debug("persisted", "write", job.what)
}

// Flush waits until every write queued before the call has run, or ctx ends.
// The marker waits for room in the queue instead of evicting a write.
func (p *persister) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	marker := persistJob{what: "flush marker", run: func() error {
		close(reached)
		return nil
	}}

	select {
	case p.jobs <- marker:
	case <-p.done:
		p.wg.Wait()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-reached:
		return nil
	case <-p.done:
		p.wg.Wait()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes, flushes the queue and waits.
// Safe to call multiple times.
func (p *persister) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.done)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
