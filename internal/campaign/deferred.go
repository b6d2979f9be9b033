package campaign

import (
	"sort"
	"time"
)

// deferredCall is a callback due at a given time, bound to one session epoch.
type deferredCall struct {
	at    time.Time
	epoch uint64
	seq   uint64
	fn    func(now time.Time)
}

// scheduler holds delayed transitions and notice expiry.
// It owns no timer: the driver calls Run with the current time.
type scheduler struct {
	calls []deferredCall
	seq   uint64
}

// After registers fn to run at or after at, if epoch is still current then.
func (s *scheduler) After(at time.Time, epoch uint64, fn func(now time.Time)) {
	s.seq++
	s.calls = append(s.calls, deferredCall{at: at, epoch: epoch, seq: s.seq, fn: fn})
}

// Run fires every due call for the current epoch in due order and drops calls
// from older epochs. Returns the number of calls fired.
func (s *scheduler) Run(now time.Time, epoch uint64) int {
	var due []deferredCall
	kept := s.calls[:0]
	for _, c := range s.calls {
		switch {
		case c.epoch != epoch:
		case !c.at.After(now):
			due = append(due, c)
		default:
			kept = append(kept, c)
		}
	}
	s.calls = kept

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	for _, c := range due {
		c.fn(now)
	}
	return len(due)
}

// Next returns the earliest pending time for epoch.
func (s *scheduler) Next(epoch uint64) (time.Time, bool) {
	var next time.Time
	found := false
	for _, c := range s.calls {
		if c.epoch == epoch && (!found || c.at.Before(next)) {
			next, found = c.at, true
		}
	}
	return next, found
}

// Clear drops every pending call.
func (s *scheduler) Clear() {
	s.calls = nil
}
