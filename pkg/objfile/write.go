package objfile

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"
)

// Write encodes every object of seq, in order, into the file at path.
// Objects written with Write[any] are encoded as interface values, read them back with Objects.
//
// When the file system supports renaming, which the default local file system does,
// the objects are written into a temporary file next to path, which then replaces path,
// so on failure the file at path is left untouched.
// Without renaming, the file at path is written in place, and a failed Write leaves it partially written.
//
// Write fails when ctx is done before the whole sequence is encoded,
// including when it gets cancelled while the sequence produces its objects.
func Write[T any](ctx context.Context, path string, seq iter.Seq[T], opts ...Option) (rErr error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c := toConfig(opts)
	ctx = logging.ContextWith(ctx, logging.Field("path", path))

	target := path
	fsys, atomic := c.FileSystem.(renamer)
	if atomic {
		target = tempPath(path)
	}

	f, err := c.FileSystem.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, c.FileMode)
	if err != nil {
		return err
	}
	defer func() {
		if rErr != nil && atomic {
			_ = c.FileSystem.Remove(target)
		}
	}()

	n, err := encodeAll(ctx, f, seq, c)
	if err == nil {
		err = syncFile(f)
	}
	if err := errorkit.Merge(err, f.Close()); err != nil {
		return err
	}
	if atomic {
		if err := fsys.Rename(target, path); err != nil {
			return err
		}
	}

	c.Logger.Debug(ctx, "object file written", logging.Field("count", n))
	return nil
}

func encodeAll[T any](ctx context.Context, w io.Writer, seq iter.Seq[T], c Config) (int, error) {
	buf := bufio.NewWriterSize(w, c.BufferSize)
	cw, err := c.Compression.writer(buf)
	if err != nil {
		return 0, err
	}
	var n int
	if seq != nil {
		enc := c.Codec.NewEncoder(cw)
		for v := range seq {
			if err := ctx.Err(); err != nil {
				return n, errorkit.Merge(err, cw.Close())
			}
			if err := enc.Encode(&v); err != nil {
				return n, errorkit.Merge(ErrEncode.Wrap(err), cw.Close())
			}
			n++
		}
		if err := ctx.Err(); err != nil {
			return n, errorkit.Merge(err, cw.Close())
		}
	}
	if err := cw.Close(); err != nil {
		return n, err
	}
	return n, buf.Flush()
}

func syncFile(f any) error {
	s, ok := f.(interface{ Sync() error })
	if !ok {
		return nil
	}
	return s.Sync()
}

func tempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
}
