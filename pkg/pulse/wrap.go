package pulse

import (
	"iter"
	"slices"
)

// Wrap returns a sequence that yields every element of seq unchanged while
// reporting progress on the tracker: each element triggers one Advance(1)
// after it is yielded. The wrapping is transparent, a lazy or infinite seq
// stays lazy, and no total is forced.
//
// The tracker is closed on every exit path of the iteration: normal
// completion, an early break, or an escaping panic.
func Wrap[T any](t *Tracker, seq iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		defer t.Close()

		for v := range seq {
			if !yield(v) {
				return
			}
			t.Advance(1)
		}
	}
}

// WrapSlice wraps the elements of a slice, setting the tracker's total from
// its length when the tracker was built without one.
func WrapSlice[T any](t *Tracker, items []T) iter.Seq[T] {
	t.setTotalIfUnknown(len(items))

	return Wrap(t, slices.Values(items))
}
