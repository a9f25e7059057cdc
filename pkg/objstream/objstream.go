// Package objstream decorates a lazy sequence with the ability to write it out as an object file.
//
// A Stream is an iter.Seq, so every sequence operation from iterkit, slices or maps works on it.
// Pipe plugs such an operation into a Stream while keeping the result writable:
//
//	adults := objstream.Pipe(objstream.FromFile[Person](ctx, "people.obj"), func(people iter.Seq[Person]) iter.Seq[Person] {
//		return iterkit.Filter(people, func(p Person) bool { return 18 <= p.Age })
//	})
//	err := adults.Write(ctx, "adults.obj")
package objstream

import (
	"context"
	"iter"

	"go.llib.dev/frameless/pkg/iterkit"
	"go.llib.dev/objfile/pkg/objfile"
)

// Stream is a lazy sequence of objects with Write as an extra terminal operation.
type Stream[T any] iter.Seq[T]

// Of makes a Stream from a sequence.
func Of[T any](seq iter.Seq[T]) Stream[T] {
	return Stream[T](seq)
}

// FromFile streams the objects of an object file, see objfile.Values.
func FromFile[T any](ctx context.Context, path string, opts ...objfile.Option) Stream[T] {
	return Of(objfile.Values[T](ctx, path, opts...))
}

// Objects streams the interface values of an object file, see objfile.Objects.
func Objects(ctx context.Context, path string, opts ...objfile.Option) Stream[any] {
	return Of(objfile.Objects(ctx, path, opts...))
}

// Pipe applies a sequence transformation on the stream.
func Pipe[From, To any](s Stream[From], transform func(iter.Seq[From]) iter.Seq[To]) Stream[To] {
	return Of(transform(s.Seq()))
}

// Seq returns the stream as a plain iter.Seq.
func (s Stream[T]) Seq() iter.Seq[T] {
	return iter.Seq[T](s)
}

// Write consumes the stream and writes its objects into the file at path.
func (s Stream[T]) Write(ctx context.Context, path string, opts ...objfile.Option) error {
	return objfile.Write(ctx, path, s.Seq(), opts...)
}

// Collect consumes the stream into a slice.
func (s Stream[T]) Collect() []T {
	return iterkit.Collect(s.Seq())
}
