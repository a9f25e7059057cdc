package objfile_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.llib.dev/frameless/adapter/localfs"
	"go.llib.dev/frameless/port/codec"
	"go.llib.dev/frameless/port/filesystem"
	"go.llib.dev/objfile/pkg/objfile"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"
	"go.llib.dev/testcase/random"
)

type Person struct {
	Name string
	Age  int
	Tags []string
}

func init() {
	objfile.Register(Person{})
}

func makePeople(t *testcase.T, n int) []Person {
	var people []Person
	for i := 0; i < n; i++ {
		p := Person{
			Name: t.Random.StringNC(8, random.CharsetAlpha()),
			Age:  t.Random.IntBetween(1, 99),
		}
		for j, l := 0, t.Random.IntBetween(0, 3); j < l; j++ {
			p.Tags = append(p.Tags, t.Random.StringNC(4, random.CharsetAlpha()))
		}
		people = append(people, p)
	}
	return people
}

func toAny[T any](vs []T) []any {
	var out []any
	for _, v := range vs {
		out = append(out, v)
	}
	return out
}

func appendBytes(t *testcase.T, path string, data []byte) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	assert.NoError(t, err)
	_, err = f.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())
}

func dirEntries(t *testcase.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func tempFile(t *testcase.T) string {
	return filepath.Join(t.TempDir(), t.Random.StringNC(6, random.CharsetAlpha())+".obj")
}

// SpyFileSystem records how the object files are accessed.
type SpyFileSystem struct {
	filesystem.FileSystem
	Opens  int
	Closes int
}

func NewSpyFileSystem() *SpyFileSystem {
	return &SpyFileSystem{FileSystem: localfs.FileSystem{}}
}

func (fsys *SpyFileSystem) OpenFile(name string, flag int, perm fs.FileMode) (filesystem.File, error) {
	fsys.Opens++
	f, err := fsys.FileSystem.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &spyFile{File: f, fsys: fsys}, nil
}

type spyFile struct {
	filesystem.File
	fsys *SpyFileSystem
}

func (f *spyFile) Close() error {
	f.fsys.Closes++
	return f.File.Close()
}

// CountingCodec counts the decode attempts of the wrapped Codec.
type CountingCodec struct {
	objfile.Codec
	Decodes int
}

func (c *CountingCodec) NewDecoder(r io.Reader) codec.Decoder {
	dec := c.Codec.NewDecoder(r)
	return codec.DecoderFunc(func(ptr any) error {
		c.Decodes++
		return dec.Decode(ptr)
	})
}
