package sched

import (
	"reflect"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Step(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 12, 10, 14, 35, 0, 0, time.UTC)}
}

func TestAfterRunsOnlyWhenDue(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	ran := false
	loop.After(300*time.Millisecond, func() { ran = true })

	loop.Advance(clock.Step(299 * time.Millisecond))
	if ran {
		t.Fatalf("timer ran early")
	}
	loop.Advance(clock.Step(time.Millisecond))
	if !ran {
		t.Fatalf("timer did not run at its deadline")
	}
	if loop.Pending() != 0 {
		t.Fatalf("expected empty loop, pending=%d", loop.Pending())
	}
}

func TestTimersRunInDeadlineOrder(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	var order []string
	loop.After(20*time.Millisecond, func() { order = append(order, "b") })
	loop.After(10*time.Millisecond, func() { order = append(order, "a") })
	loop.After(20*time.Millisecond, func() { order = append(order, "c") })

	loop.Advance(clock.Step(time.Second))
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestCancelPreventsRun(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	ran := false
	h := loop.After(time.Millisecond, func() { ran = true })
	h.Cancel()
	h.Cancel()

	loop.Advance(clock.Step(time.Second))
	if ran {
		t.Fatalf("cancelled timer ran")
	}
	if h.Active() {
		t.Fatalf("cancelled handle reports active")
	}

	var nilHandle *Handle
	nilHandle.Cancel()
}

func TestFrameScheduledDuringAdvanceWaitsForNextFrame(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	ticks := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		ticks++
		if ticks < 3 {
			loop.Frame(tick)
		}
	}
	loop.Frame(tick)

	for i := 1; i <= 5; i++ {
		loop.Advance(clock.Step(16 * time.Millisecond))
		want := i
		if want > 3 {
			want = 3
		}
		if ticks != want {
			t.Fatalf("after frame %d: ticks=%d, want %d", i, ticks, want)
		}
	}
	if loop.WantsFrame() {
		t.Fatalf("loop still wants frames after the chain ended")
	}
}

func TestCancelFromInsideAnotherContinuation(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	ran := false
	var victim *Handle
	loop.After(time.Millisecond, func() { victim.Cancel() })
	victim = loop.After(2*time.Millisecond, func() { ran = true })

	loop.Advance(clock.Step(time.Second))
	if ran {
		t.Fatalf("continuation cancelled by an earlier one still ran")
	}
}

func TestNextDeadline(t *testing.T) {
	clock := newFakeClock()
	loop := New(clock.Now)

	if _, ok := loop.NextDeadline(); ok {
		t.Fatalf("empty loop reported a deadline")
	}
	loop.After(50*time.Millisecond, func() {})
	loop.After(10*time.Millisecond, func() {})

	next, ok := loop.NextDeadline()
	if !ok || !next.Equal(clock.now.Add(10*time.Millisecond)) {
		t.Fatalf("NextDeadline = %v, %v", next, ok)
	}
}
