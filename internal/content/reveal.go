package content

import (
	"iter"
	"math"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// MaxRevealDelay bounds the delay of any single letter.
const MaxRevealDelay = 500 * time.Millisecond

// RevealEvent makes the letter with ordinal Letter visible At after the
// reveal started. Letters are counted over non-whitespace runes.
type RevealEvent struct {
	Letter int
	At     time.Duration
}

// Letters counts the letters of s that take part in a reveal.
func Letters(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// RevealEvents lazily yields one event per letter, in shuffled letter
// order, with non-decreasing offsets drawn uniformly from [0, maxDelay).
// Offsets are generated as ascending order statistics so no event list is
// ever materialised.
func RevealEvents(letters int, maxDelay time.Duration, rng *rand.Rand) iter.Seq[RevealEvent] {
	return func(yield func(RevealEvent) bool) {
		if letters <= 0 {
			return
		}
		order := make([]int, letters)
		for i := range order {
			order[i] = i
		}
		// cur walks down the order statistics of letters uniforms; 1-cur
		// walks up.
		cur := 1.0
		for k := 0; k < letters; k++ {
			j := k + rng.IntN(letters-k)
			order[k], order[j] = order[j], order[k]

			remaining := float64(letters - k)
			cur *= math.Pow(rng.Float64(), 1/remaining)
			at := time.Duration((1 - cur) * float64(maxDelay))
			if at >= maxDelay {
				at = maxDelay - 1
			}
			if !yield(RevealEvent{Letter: order[k], At: at}) {
				return
			}
		}
	}
}

// Revealer tracks which letters of a text are visible. It pulls from a
// RevealEvents sequence as time advances.
type Revealer struct {
	visible []bool
	shown   int
	rng     *rand.Rand

	next    func() (RevealEvent, bool)
	stop    func()
	pending RevealEvent
	waiting bool
}

// NewRevealer starts a reveal over the given number of letters.
func NewRevealer(letters int, seed uint64) *Revealer {
	r := &Revealer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	r.Restart(letters)
	return r
}

// Restart discards progress and begins a fresh, reshuffled reveal.
func (r *Revealer) Restart(letters int) {
	r.Stop()
	r.visible = make([]bool, max(letters, 0))
	r.shown = 0
	r.next, r.stop = iter.Pull(RevealEvents(letters, MaxRevealDelay, r.rng))
	r.waiting = false
}

// Stop releases the underlying sequence. Remaining letters stay hidden.
func (r *Revealer) Stop() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
	r.next = nil
	r.waiting = false
}

// Advance reveals every letter scheduled at or before elapsed.
func (r *Revealer) Advance(elapsed time.Duration) {
	for r.next != nil {
		if !r.waiting {
			ev, ok := r.next()
			if !ok {
				r.Stop()
				return
			}
			r.pending, r.waiting = ev, true
		}
		if r.pending.At > elapsed {
			return
		}
		if !r.visible[r.pending.Letter] {
			r.visible[r.pending.Letter] = true
			r.shown++
		}
		r.waiting = false
	}
}

// Finish reveals everything at once.
func (r *Revealer) Finish() {
	r.Stop()
	for i := range r.visible {
		r.visible[i] = true
	}
	r.shown = len(r.visible)
}

// Done reports whether every letter is visible.
func (r *Revealer) Done() bool { return r.shown == len(r.visible) }

// Mask returns s with hidden letters replaced by blanks of the same
// display width. Whitespace, including newlines, passes through so layout
// is stable while letters appear.
func (r *Revealer) Mask(s string) string {
	if r.Done() {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, c := range s {
		if unicode.IsSpace(c) {
			b.WriteRune(c)
			continue
		}
		if i < len(r.visible) && r.visible[i] {
			b.WriteRune(c)
		} else {
			b.WriteString(strings.Repeat(" ", max(ansi.StringWidth(string(c)), 1)))
		}
		i++
	}
	return b.String()
}
