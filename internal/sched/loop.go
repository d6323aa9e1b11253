// Package sched provides the cooperative continuation queue the desktop
// runs on. Nothing here starts goroutines: the host calls Advance from its
// event loop, once per rendered frame, and every continuation runs on that
// call stack.
package sched

import (
	"sort"
	"time"
)

// Clock reports the current time.
type Clock func() time.Time

// Handle identifies a scheduled continuation.
type Handle struct {
	loop      *Loop
	seq       uint64
	due       time.Time
	frame     bool
	run       func(now time.Time)
	cancelled bool
	done      bool
}

// Cancel prevents the continuation from running. Safe to call on nil, twice,
// or after the continuation has already run.
func (h *Handle) Cancel() {
	if h == nil || h.cancelled || h.done {
		return
	}
	h.cancelled = true
	h.loop.drop(h)
}

// Active reports whether the continuation is still waiting to run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.done
}

// Loop is a single-threaded queue of delayed and per-frame continuations.
// It is not safe for concurrent use; hosts serialize access the same way
// they serialize input events.
type Loop struct {
	clock   Clock
	seq     uint64
	timers  []*Handle
	frames  []*Handle
	running bool
}

// New creates a loop reading time from clock. A nil clock uses time.Now.
func New(clock Clock) *Loop {
	if clock == nil {
		clock = time.Now
	}
	return &Loop{clock: clock}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time { return l.clock() }

// After schedules fn to run once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) *Handle {
	l.seq++
	h := &Handle{
		loop: l,
		seq:  l.seq,
		due:  l.clock().Add(d),
		run:  func(time.Time) { fn() },
	}
	l.timers = append(l.timers, h)
	return h
}

// Frame schedules fn to run on the next Advance.
func (l *Loop) Frame(fn func(now time.Time)) *Handle {
	l.seq++
	h := &Handle{loop: l, seq: l.seq, frame: true, run: fn}
	l.frames = append(l.frames, h)
	return h
}

// Advance runs every timer due at or before now, in deadline order, then
// every frame continuation that was queued before this call. Continuations
// scheduled while advancing wait for the next call.
func (l *Loop) Advance(now time.Time) {
	if l.running {
		return
	}
	l.running = true
	defer func() { l.running = false }()

	due := l.takeDue(now)
	frames := l.frames
	l.frames = nil

	for _, h := range due {
		l.fire(h, now)
	}
	for _, h := range frames {
		l.fire(h, now)
	}
}

func (l *Loop) fire(h *Handle, now time.Time) {
	if h.cancelled || h.done {
		return
	}
	h.done = true
	h.run(now)
}

func (l *Loop) takeDue(now time.Time) []*Handle {
	var due, rest []*Handle
	for _, h := range l.timers {
		if !h.due.After(now) {
			due = append(due, h)
		} else {
			rest = append(rest, h)
		}
	}
	l.timers = rest
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	return due
}

func (l *Loop) drop(h *Handle) {
	list := &l.timers
	if h.frame {
		list = &l.frames
	}
	for i, other := range *list {
		if other == h {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Pending returns the number of continuations waiting to run.
func (l *Loop) Pending() int {
	return len(l.timers) + len(l.frames)
}

// WantsFrame reports whether any frame continuation is queued.
func (l *Loop) WantsFrame() bool {
	return len(l.frames) > 0
}

// NextDeadline returns the earliest timer deadline.
func (l *Loop) NextDeadline() (time.Time, bool) {
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	next := l.timers[0].due
	for _, h := range l.timers[1:] {
		if h.due.Before(next) {
			next = h.due
		}
	}
	return next, true
}
