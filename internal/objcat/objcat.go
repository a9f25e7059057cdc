// Package objcat implements the objcat command, which inspects and builds object files.
package objcat

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/objfile/pkg/objfile"
)

const (
	ErrStrict          errorkit.Error = "objcat: the object file could not be read completely"
	ErrUnknownLogLevel errorkit.Error = "objcat: unknown log level"
	ErrUnknownFormat   errorkit.Error = "objcat: unknown output format"
)

func init() {
	// the value types of decoded JSON documents
	objfile.Register(map[string]any{})
	objfile.Register([]any{})
	objfile.Register(json.Number(""))
}

// Settings are the persistent settings of every objcat command.
// They can be loaded from a TOML file, where the flags take precedence.
type Settings struct {
	Codec       string `toml:"codec"`
	Compression string `toml:"compression"`
	LogLevel    string `toml:"log_level"`
	Strict      bool   `toml:"strict"`
}

type app struct {
	config   string
	flags    Settings
	settings Settings

	logger *logging.Logger
	opts   []objfile.Option
}

// NewCommand returns the objcat root command.
// The logs of the object file handling are written to errOut.
func NewCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "objcat",
		Short:         "objcat inspects and builds object files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, errOut)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.config, "config", "", "TOML file with the default settings")
	flags.StringVar(&a.flags.Codec, "codec", "gob", "object encoding of the file [gob,json]")
	flags.StringVar(&a.flags.Compression, "compression", "none", "compression of the file [none,brotli,zstd]")
	flags.StringVar(&a.flags.LogLevel, "log-level", "info", "log level [debug,info,warn,error,fatal]")
	flags.BoolVar(&a.flags.Strict, "strict", false, "fail when the file can't be read until its end")

	root.AddCommand(
		a.countCommand(),
		a.dumpCommand(),
		a.packCommand(),
		a.statCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, errOut io.Writer) error {
	a.settings = Settings{Codec: "gob", Compression: "none", LogLevel: "info"}
	if a.config != "" {
		if _, err := toml.DecodeFile(a.config, &a.settings); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("codec") {
		a.settings.Codec = a.flags.Codec
	}
	if flags.Changed("compression") {
		a.settings.Compression = a.flags.Compression
	}
	if flags.Changed("log-level") {
		a.settings.LogLevel = a.flags.LogLevel
	}
	if flags.Changed("strict") {
		a.settings.Strict = a.flags.Strict
	}

	c, err := objfile.ParseCodec(a.settings.Codec)
	if err != nil {
		return err
	}
	compression, err := objfile.ParseCompression(a.settings.Compression)
	if err != nil {
		return err
	}
	level, err := parseLevel(a.settings.LogLevel)
	if err != nil {
		return err
	}

	a.logger = &logging.Logger{Out: errOut, Level: level}
	a.opts = []objfile.Option{
		objfile.WithCodec(c),
		objfile.WithCompression(compression),
		objfile.WithLogger(a.logger),
	}
	return nil
}

func parseLevel(name string) (logging.Level, error) {
	switch level := logging.Level(strings.ToLower(strings.TrimSpace(name))); level {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError, logging.LevelFatal:
		return level, nil
	case "":
		return logging.LevelInfo, nil
	default:
		return "", ErrUnknownLogLevel.F("%q", name)
	}
}

// each reads the objects of the file at path.
// In strict mode, a failure that ended the sequence early is returned.
func (a *app) each(cmd *cobra.Command, path string, fn func(v any) error) error {
	cursor := objfile.Open[any](cmd.Context(), path, a.opts...)
	defer cursor.Close()

	for cursor.HasMore() {
		if err := fn(cursor.TakeNext()); err != nil {
			return err
		}
	}
	if err := cursor.Err(); err != nil && a.settings.Strict {
		return ErrStrict.Wrap(err)
	}
	return nil
}
