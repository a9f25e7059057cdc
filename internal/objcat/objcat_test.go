package objcat_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.llib.dev/objfile/internal/objcat"
)

const people = `{"name":"foo","age":42}
{"name":"bar","age":24}
"baz"
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := objcat.NewCommand(strings.NewReader(stdin), out, errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func pack(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "people.obj")
	_, err := run(t, people, append([]string{"pack", path}, args...)...)
	require.NoError(t, err)
	return path
}

func TestPackAndCount(t *testing.T) {
	path := pack(t)

	out, err := run(t, "", "count", path)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)
}

func TestPack_fromFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "people.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(people), 0644))
	path := filepath.Join(dir, "people.obj")

	_, err := run(t, "", "pack", "--input", input, path)
	require.NoError(t, err)

	out, err := run(t, "", "count", path)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)
}

func TestPack_malformedInput(t *testing.T) {
	const malformed = `{"name":"foo"}` + "\n{"

	t.Run("no file is made", func(t *testing.T) {
		dir := t.TempDir()

		_, err := run(t, malformed, "pack", filepath.Join(dir, "people.obj"))
		require.Error(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("an existing file is left untouched", func(t *testing.T) {
		path := pack(t)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		_, err = run(t, malformed, "pack", path)
		require.Error(t, err)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, before, after)

		out, err := run(t, "", "count", path)
		require.NoError(t, err)
		require.Equal(t, "3\n", out)
	})
}

func TestPack_largeIntegers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numbers.obj")

	_, err := run(t, `{"id":9007199254740993}`+"\n9007199254740993\n", "pack", path)
	require.NoError(t, err)

	out, err := run(t, "", "dump", path)
	require.NoError(t, err)
	require.Equal(t, `{"id":9007199254740993}`+"\n9007199254740993\n", out)
}

func TestDump(t *testing.T) {
	path := pack(t)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "", "dump", path)
		require.NoError(t, err)
		require.Equal(t, `{"age":42,"name":"foo"}`+"\n"+`{"age":24,"name":"bar"}`+"\n"+`"baz"`+"\n", out)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "", "dump", "--format", "yaml", path)
		require.NoError(t, err)
		require.Equal(t, 3, strings.Count(out, "---\n"))
		require.Contains(t, out, "name: foo")
		require.Contains(t, out, "name: bar")
		require.Contains(t, out, "baz")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "", "dump", "--format", "xml", path)
		require.ErrorIs(t, err, objcat.ErrUnknownFormat)
	})
}

func TestLayers(t *testing.T) {
	for _, args := range [][]string{
		{"--compression", "brotli"},
		{"--compression", "zstd", "--codec", "json"},
		{"--codec", "json"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			path := pack(t, args...)

			out, err := run(t, "", append([]string{"count", path}, args...)...)
			require.NoError(t, err)
			require.Equal(t, "3\n", out)

			out, err = run(t, "", "count", path)
			require.NoError(t, err)
			require.NotEqual(t, "3\n", out)
		})
	}
}

func TestUnknownSettings(t *testing.T) {
	path := pack(t)

	_, err := run(t, "", "count", "--compression", "lz4", path)
	require.Error(t, err)

	_, err = run(t, "", "count", "--codec", "xml", path)
	require.Error(t, err)

	_, err = run(t, "", "count", "--log-level", "loud", path)
	require.ErrorIs(t, err, objcat.ErrUnknownLogLevel)
}

func TestStrict(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.obj")

	out, err := run(t, "", "count", missing)
	require.NoError(t, err)
	require.Equal(t, "0\n", out)

	_, err = run(t, "", "count", "--strict", missing)
	require.ErrorIs(t, err, objcat.ErrStrict)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "objcat.toml")
	require.NoError(t, os.WriteFile(config, []byte("compression = \"zstd\"\nstrict = true\n"), 0644))

	path := pack(t, "--config", config)

	out, err := run(t, "", "count", "--config", config, path)
	require.NoError(t, err)
	require.Equal(t, "3\n", out)

	t.Run("flags take precedence", func(t *testing.T) {
		out, err := run(t, "", "count", "--config", config, "--compression", "zstd", "--strict=false", path)
		require.NoError(t, err)
		require.Equal(t, "3\n", out)

		_, err = run(t, "", "count", "--config", config, "--compression", "none", path)
		require.ErrorIs(t, err, objcat.ErrStrict)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := run(t, "", "count", "--config", filepath.Join(dir, "missing.toml"), path)
		require.Error(t, err)
	})
}

func TestStat(t *testing.T) {
	path := pack(t)

	out, err := run(t, "", "stat", path)
	require.NoError(t, err)
	require.Contains(t, out, "objects: 3")
	require.Contains(t, out, "size: ")
	require.Contains(t, out, " B\n")

	_, err = run(t, "", "stat", filepath.Join(t.TempDir(), "missing.obj"))
	require.Error(t, err)
}
