package sequence

import "iter"

// Iterator is a lazy, chainable view over a sequence of T.
type Iterator[T any] struct {
	seq iter.Seq[T]
}

// From creates an Iterator over a slice. The slice is read lazily.
func From[T any](data []T) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, v := range data {
				if !yield(v) {
					return
				}
			}
		},
	}
}

// FromSeq wraps an iter.Seq.
func FromSeq[T any](seq iter.Seq[T]) *Iterator[T] {
	if seq == nil {
		seq = func(func(T) bool) {}
	}
	return &Iterator[T]{seq: seq}
}

// Seq returns the underlying sequence function.
func (i *Iterator[T]) Seq() iter.Seq[T] {
	return i.seq
}

// Collect exhausts the iterator into a new slice. The result is never nil.
func (i *Iterator[T]) Collect() []T {
	out := make([]T, 0)
	i.seq(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Filter keeps the elements satisfying pred.
func (i *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			i.seq(func(v T) bool {
				if pred(v) {
					return yield(v)
				}
				return true
			})
		},
	}
}

// Find returns the first element matching pred.
func (i *Iterator[T]) Find(pred func(T) bool) (T, bool) {
	var found T
	ok := false
	i.seq(func(v T) bool {
		if pred(v) {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

// Take yields at most n elements.
func (i *Iterator[T]) Take(n int) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			if n <= 0 {
				return
			}
			count := 0
			i.seq(func(v T) bool {
				count++
				if !yield(v) {
					return false
				}
				return count < n
			})
		},
	}
}

// Drop skips the first n elements.
func (i *Iterator[T]) Drop(n int) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			count := 0
			i.seq(func(v T) bool {
				if count < n {
					count++
					return true
				}
				return yield(v)
			})
		},
	}
}

// Chain concatenates iterators in order.
func Chain[T any](iters ...*Iterator[T]) *Iterator[T] {
	return &Iterator[T]{
		seq: func(yield func(T) bool) {
			for _, it := range iters {
				stopped := false
				it.seq(func(v T) bool {
					if !yield(v) {
						stopped = true
						return false
					}
					return true
				})
				if stopped {
					return
				}
			}
		},
	}
}

// Map converts every element with fn, keeping order.
func Map[T any, R any](it *Iterator[T], fn func(T) R) []R {
	out := make([]R, 0)
	it.seq(func(v T) bool {
		out = append(out, fn(v))
		return true
	})
	return out
}
