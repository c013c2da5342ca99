package store

import (
	"github.com/arthur-debert/dirstore/pkg/errors"
)

// Range selects part of a sequence. Nil bounds default to the start or
// end of the sequence depending on step direction; a nil step means 1.
// Negative bounds count from the end, and bounds past either end clamp
// instead of failing.
type Range struct {
	Start *int
	Stop  *int
	Step  *int
}

// Idx is a convenience for building Range bounds from literals.
func Idx(i int) *int { return &i }

// sliceBounds resolves a Range against length n into the first index,
// the number of selected elements, and the step.
func sliceBounds(r Range, n int) (start, count, step int, err error) {
	step = 1
	if r.Step != nil {
		step = *r.Step
	}
	if step == 0 {
		return 0, 0, 0, errors.New(errors.ErrValueKind, "slice step cannot be zero")
	}

	if step > 0 {
		start, stop := 0, n
		if r.Start != nil {
			start = clampIndex(*r.Start, n, 0, n)
		}
		if r.Stop != nil {
			stop = clampIndex(*r.Stop, n, 0, n)
		}
		if stop <= start {
			return start, 0, step, nil
		}
		return start, (stop - start + step - 1) / step, step, nil
	}

	start, stop := n-1, -1
	if r.Start != nil {
		start = clampIndex(*r.Start, n, -1, n-1)
	}
	if r.Stop != nil {
		stop = clampIndex(*r.Stop, n, -1, n-1)
	}
	if stop >= start {
		return start, 0, step, nil
	}
	return start, (stop - start + step + 1) / step, step, nil
}

// clampIndex resolves a possibly negative index against n and clamps it
// into [lo, hi].
func clampIndex(i, n, lo, hi int) int {
	if i < 0 {
		i += n
	}
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// Slice returns the elements selected by r, in selection order. A zero
// step fails with ErrValueKind before any reads. Dispatch picks one of
// four strategies, tried in this order: a contiguous forward scan for
// step 1, a strided forward walk for larger positive steps, a
// contiguous reverse scan for step -1, and a strided reverse walk for
// the rest.
func (q *Seq) Slice(r Range) ([]any, error) {
	q.c.lock.Lock()
	defer q.c.lock.Unlock()
	if err := q.c.requireValid(); err != nil {
		return nil, err
	}

	n, err := q.c.lenLocked()
	if err != nil {
		return nil, err
	}
	start, count, step, err := sliceBounds(r, n)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	switch {
	case step == 1:
		return q.readRun(start, count)
	case step > 1:
		return q.readStrideForward(start, count, step)
	case step == -1:
		return q.readRunReverse(start, count)
	default:
		return q.readStrideReverse(start, count, step)
	}
}

// readRun reads count adjacent elements ascending from start.
func (q *Seq) readRun(start, count int) ([]any, error) {
	out := make([]any, 0, count)
	for i := start; i < start+count; i++ {
		v, err := q.c.loadValue(q.be().entryPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readStrideForward reads count elements ascending from start, step
// positions apart.
func (q *Seq) readStrideForward(start, count, step int) ([]any, error) {
	out := make([]any, 0, count)
	for i := start; len(out) < count; i += step {
		v, err := q.c.loadValue(q.be().entryPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readRunReverse reads count adjacent elements descending from start.
func (q *Seq) readRunReverse(start, count int) ([]any, error) {
	out := make([]any, 0, count)
	for i := start; i > start-count; i-- {
		v, err := q.c.loadValue(q.be().entryPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// readStrideReverse reads count elements descending from start, |step|
// positions apart.
func (q *Seq) readStrideReverse(start, count, step int) ([]any, error) {
	out := make([]any, 0, count)
	for i := start; len(out) < count; i += step {
		v, err := q.c.loadValue(q.be().entryPath(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
