// Package objfile reads and writes files of back-to-back encoded objects.
//
// # Summary
//
// An object file is a plain concatenation of objects encoded with Go's native encoding/gob format.
// It has no header, no object count and no separators,
// the only way to find the next object is to ask the decoder for it.
//
// Reading is lazy and fail-soft:
//
//   - Values and Objects return an iter.Seq that doesn't touch the file system until it is iterated.
//   - The file is released when the iteration ends, including when the consumer breaks out early.
//   - A missing, empty, truncated or corrupt file, or an object whose type is unknown to the process,
//     simply makes the sequence end. Objects decoded before the failure are still yielded.
//
// The failure that ended a sequence is not reported to the consumer of the sequence.
// When it matters, use a Cursor directly and check its Err after the iteration,
// or pass a debug level logger with WithLogger.
//
// Writing, with Write, is explicit and reports its errors.
package objfile

import (
	"context"
	"iter"
)

// Values returns the objects of the file at path as a lazy sequence.
// Every iteration of the sequence reads the file from the start with a new Cursor.
func Values[T any](ctx context.Context, path string, opts ...Option) iter.Seq[T] {
	return func(yield func(T) bool) {
		cursor := Open[T](ctx, path, opts...)
		defer cursor.Close()
		for cursor.HasMore() {
			if !yield(cursor.TakeNext()) {
				return
			}
		}
	}
}

// Objects returns the objects of the file at path as a lazy sequence of interface values.
// The objects must have been written as interface values too, with Write[any],
// and their concrete types must be registered with Register.
func Objects(ctx context.Context, path string, opts ...Option) iter.Seq[any] {
	return Values[any](ctx, path, opts...)
}

// Count returns how many objects can be read as T from the file before the sequence ends.
func Count[T any](ctx context.Context, path string, opts ...Option) int {
	var n int
	for range Values[T](ctx, path, opts...) {
		n++
	}
	return n
}
