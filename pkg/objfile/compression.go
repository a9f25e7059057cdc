package objfile

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// Compression is applied on the whole encoded object stream of a file.
// Reading a file needs the same Compression as the one it was written with,
// otherwise the file reads as an empty or short sequence.
type Compression string

const (
	Uncompressed Compression = "none"
	Brotli       Compression = "brotli"
	Zstd         Compression = "zstd"
)

// ParseCompression looks up a compression by its name. An empty name means Uncompressed.
func ParseCompression(name string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(name))); c {
	case "":
		return Uncompressed, nil
	case Uncompressed, Brotli, Zstd:
		return c, nil
	default:
		return "", ErrUnknownCompression.F("%q", name)
	}
}

func (c Compression) String() string { return string(c) }

// reader wraps r with the decompressor.
// The returned release func is nil when the decompressor holds no resources.
func (c Compression) reader(r io.Reader) (io.Reader, func() error, error) {
	switch c {
	case Uncompressed, "":
		return r, nil, nil
	case Brotli:
		return brotli.NewReader(r), nil, nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return dec, func() error {
			dec.Close()
			return nil
		}, nil
	default:
		return nil, nil, ErrUnknownCompression.F("%q", string(c))
	}
}

// writer wraps w with the compressor.
// Closing the returned writer flushes the compressed stream but leaves w open.
func (c Compression) writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case Uncompressed, "":
		return nopWriteCloser{Writer: w}, nil
	case Brotli:
		return brotli.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return enc, nil
	default:
		return nil, ErrUnknownCompression.F("%q", string(c))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
