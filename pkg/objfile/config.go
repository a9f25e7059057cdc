package objfile

import (
	"io/fs"
	"os"

	"go.llib.dev/frameless/adapter/localfs"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/frameless/port/filesystem"
	"go.llib.dev/frameless/port/option"
)

type Option option.Option[Config]

// Config holds the layers used to read and write an object file.
// A Config value is an Option itself, its non-zero fields override the defaults.
type Config struct {
	// Codec is the object encoding of the file.
	//
	// Default: Gob
	Codec Codec
	// Compression is applied on the whole encoded stream.
	//
	// Default: Uncompressed
	Compression Compression
	// FileSystem is where the object files are opened.
	//
	// Default: the local file system
	FileSystem filesystem.FileSystem
	// Logger receives the debug level events,
	// such as the failure that silently ended a sequence.
	//
	// Default: logging to stderr on info level
	Logger *logging.Logger
	// BufferSize is the size of the read and write buffer.
	//
	// Default: 64KiB
	BufferSize int
	// FileMode is the permission of the files created by Write.
	//
	// Default: 0644
	FileMode fs.FileMode
}

const defaultBufferSize = 64 * 1024

var defaultLogger = &logging.Logger{Out: os.Stderr}

func (c *Config) Init() {
	if c.Codec == nil {
		c.Codec = Gob
	}
	if c.Compression == "" {
		c.Compression = Uncompressed
	}
	if c.FileSystem == nil {
		c.FileSystem = localFileSystem{}
	}
	if c.Logger == nil {
		c.Logger = defaultLogger
	}
	if c.BufferSize <= 0 {
		c.BufferSize = defaultBufferSize
	}
	if c.FileMode == 0 {
		c.FileMode = 0644
	}
}

func (c Config) Configure(t *Config) {
	if c.Codec != nil {
		t.Codec = c.Codec
	}
	if c.Compression != "" {
		t.Compression = c.Compression
	}
	if c.FileSystem != nil {
		t.FileSystem = c.FileSystem
	}
	if c.Logger != nil {
		t.Logger = c.Logger
	}
	if 0 < c.BufferSize {
		t.BufferSize = c.BufferSize
	}
	if c.FileMode != 0 {
		t.FileMode = c.FileMode
	}
}

// WithCodec sets the object encoding of the file.
func WithCodec(c Codec) Option {
	return option.Func[Config](func(conf *Config) {
		if c != nil {
			conf.Codec = c
		}
	})
}

// WithCompression sets the compression of the whole object stream.
func WithCompression(c Compression) Option {
	return option.Func[Config](func(conf *Config) {
		if c != "" {
			conf.Compression = c
		}
	})
}

// WithFileSystem makes the object files resolved through the given file system.
// When the file system also supports renaming, Write replaces files atomically.
func WithFileSystem(fsys filesystem.FileSystem) Option {
	return option.Func[Config](func(c *Config) {
		if fsys != nil {
			c.FileSystem = fsys
		}
	})
}

// WithLogger sets where the debug level events of the object file handling go.
func WithLogger(l *logging.Logger) Option {
	return option.Func[Config](func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	})
}

// WithBufferSize sets the size of the read and write buffer.
func WithBufferSize(n int) Option {
	return option.Func[Config](func(c *Config) {
		if 0 < n {
			c.BufferSize = n
		}
	})
}

func toConfig(opts []Option) Config {
	return option.ToConfig[Config](opts)
}

type renamer interface {
	Rename(oldpath, newpath string) error
}

type localFileSystem struct{ localfs.FileSystem }

func (localFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
