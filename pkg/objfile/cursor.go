package objfile

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/port/codec"
)

// Cursor walks the objects of a single object file, one at a time.
//
// The file is opened on the first HasMore call, and the cursor is always exactly one object ahead
// of what it yielded so far. Any failure to open or decode the file ends the sequence,
// exactly as if the data legitimately ended, and the file is released right away.
// The failure itself is only available out of band, through Err and the debug logs.
//
// A Cursor must not be used by more than one consumer at a time.
type Cursor[T any] struct {
	ctx  context.Context
	path string
	conf Config

	// started is set once the cursor went past its initial state,
	// either by opening the file or by getting closed.
	started bool
	handle  *handle

	pending    T
	hasPending bool

	err error
}

// Open makes a Cursor for the object file at path.
// It doesn't touch the file system, the file is opened when the cursor is first queried.
func Open[T any](ctx context.Context, path string, opts ...Option) *Cursor[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Cursor[T]{
		ctx:  logging.ContextWith(ctx, logging.Field("path", path)),
		path: path,
		conf: toConfig(opts),
	}
}

// HasMore reports whether there is a pending object to take.
// The first call opens the file and decodes the first object.
func (c *Cursor[T]) HasMore() bool {
	if !c.started {
		c.started = true
		c.open()
	}
	return c.hasPending
}

// TakeNext returns the pending object, then decodes the next one.
// It must only be called after HasMore reported true, otherwise it returns the zero value.
func (c *Cursor[T]) TakeNext() T {
	var zero T
	value := c.pending
	c.pending, c.hasPending = zero, false
	c.decode()
	return value
}

// Close releases the file.
// It is safe to call it multiple times, or before the cursor was ever queried.
// A closed cursor has no more objects. Close never fails.
func (c *Cursor[T]) Close() error {
	var zero T
	c.started = true
	c.pending, c.hasPending = zero, false
	c.release()
	return nil
}

// Err returns the failure that ended the sequence early.
// It is nil when the data ended normally, or when the sequence is still going.
func (c *Cursor[T]) Err() error {
	return c.err
}

func (c *Cursor[T]) open() {
	h, err := openHandle(c.path, c.conf)
	if err != nil {
		c.fail(err)
		return
	}
	c.handle = h
	c.decode()
}

func (c *Cursor[T]) decode() {
	if c.handle == nil {
		return
	}
	var v T // gob merges into existing maps and fields, so never reuse the previous value
	if err := c.handle.Decoder.Decode(&v); err != nil {
		c.fail(err)
		return
	}
	c.pending, c.hasPending = v, true
}

func (c *Cursor[T]) fail(err error) {
	defer c.release()
	if errors.Is(err, io.EOF) {
		return
	}
	if c.err == nil {
		c.err = err
	}
	c.conf.Logger.Debug(c.ctx, "object file sequence ended with a failure", logging.ErrField(err))
}

func (c *Cursor[T]) release() {
	if c.handle == nil {
		return
	}
	h := c.handle
	c.handle = nil
	if err := h.Close(); err != nil {
		c.conf.Logger.Debug(c.ctx, "closing the object file failed", logging.ErrField(err))
	}
}

// handle is the layered reader of an opened object file:
// file, buffer, decompressor and decoder.
type handle struct {
	Decoder codec.Decoder
	closers []func() error
}

func openHandle(path string, c Config) (*handle, error) {
	f, err := c.FileSystem.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	h := &handle{closers: []func() error{f.Close}}
	r, release, err := c.Compression.reader(bufio.NewReaderSize(f, c.BufferSize))
	if err != nil {
		return nil, errorkit.Merge(err, h.Close())
	}
	if release != nil {
		h.closers = append(h.closers, release)
	}
	h.Decoder = c.Codec.NewDecoder(r)
	return h, nil
}

func (h *handle) Close() error {
	var errs []error
	for i := len(h.closers) - 1; 0 <= i; i-- {
		errs = append(errs, h.closers[i]())
	}
	h.closers = nil
	return errorkit.Merge(errs...)
}
