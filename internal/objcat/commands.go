package objcat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"
	"go.llib.dev/objfile/pkg/objfile"
	"gopkg.in/yaml.v2"
)

func (a *app) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "count [object file]",
		Short:   "prints the number of readable objects",
		Example: "objcat count ./people.obj",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if err := a.each(cmd, args[0], func(any) error { n++; return nil }); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}

func (a *app) dumpCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "dump [object file]",
		Short:   "prints every object of the file",
		Example: "objcat dump --format yaml ./people.obj",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var emit func(v any) error
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				emit = func(v any) error { return enc.Encode(v) }
			case "yaml":
				emit = func(v any) error {
					data, err := yaml.Marshal(v)
					if err != nil {
						return err
					}
					if _, err := io.WriteString(out, "---\n"); err != nil {
						return err
					}
					_, err = out.Write(data)
					return err
				}
			default:
				return ErrUnknownFormat.F("%q", format)
			}
			return a.each(cmd, args[0], emit)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format [json,yaml]")
	return cmd
}

func (a *app) packCommand() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:     "pack [object file]",
		Short:   "writes newline delimited JSON values into an object file",
		Example: "objcat pack --input ./people.jsonl ./people.obj",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (rErr error) {
			in := cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer errorkit.Finish(&rErr, f.Close)
				in = f
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			values, decodeErr := decodeJSONLines(in, cancel)
			if err := objfile.Write(ctx, args[0], values, a.opts...); err != nil {
				if derr := decodeErr(); derr != nil {
					return derr
				}
				return err
			}
			a.logger.Info(ctx, "object file packed", logging.Field("path", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON lines file, or - for stdin")
	return cmd
}

// decodeJSONLines yields the JSON values of r until its end.
// A malformed value stops the sequence and calls abort,
// and the error is reported by the returned function.
func decodeJSONLines(r io.Reader, abort func()) (iter.Seq[any], func() error) {
	var err error
	seq := func(yield func(any) bool) {
		dec := json.NewDecoder(bufio.NewReader(r))
		dec.UseNumber()
		for {
			var v any
			if err = dec.Decode(&v); err != nil {
				if err == io.EOF {
					err = nil
				} else {
					abort()
				}
				return
			}
			if !yield(v) {
				return
			}
		}
	}
	return seq, func() error { return err }
}

func (a *app) statCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "stat [object file]",
		Short:   "prints the object count and the size of the file",
		Example: "objcat stat ./people.obj",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			var n int
			if err := a.each(cmd, args[0], func(any) error { n++; return nil }); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "path: %s\nobjects: %d\nsize: %s\n",
				args[0], n, humanize.Bytes(uint64(info.Size())))
			return err
		},
	}
}
