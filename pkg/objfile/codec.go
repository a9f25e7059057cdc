package objfile

import (
	"encoding/gob"
	"encoding/json"
	"io"
	"strings"

	"go.llib.dev/frameless/port/codec"
)

// Codec is the object encoding of a file.
// The decoder must be able to decode objects one at a time from a stream,
// since an object file has no header, count or separator between the objects.
type Codec interface {
	NewEncoder(w io.Writer) codec.Encoder
	NewDecoder(r io.Reader) codec.Decoder
}

var (
	// Gob is Go's native object encoding, and the default codec.
	Gob Codec = GobCodec{}
	// JSON encodes the objects as a newline delimited JSON stream.
	JSON Codec = JSONCodec{}
)

// GobCodec uses encoding/gob.
//
// A gob stream carries the type definitions once per encoder,
// thus a file is always written in a single encoder session.
// Objects read as an interface value (Objects, Values[any]) need their concrete type registered, see Register.
type GobCodec struct{}

func (GobCodec) NewEncoder(w io.Writer) codec.Encoder { return gob.NewEncoder(w) }

func (GobCodec) NewDecoder(r io.Reader) codec.Decoder { return gob.NewDecoder(r) }

// JSONCodec uses encoding/json, one JSON value per object.
type JSONCodec struct{}

func (JSONCodec) NewEncoder(w io.Writer) codec.Encoder { return json.NewEncoder(w) }

func (JSONCodec) NewDecoder(r io.Reader) codec.Decoder { return json.NewDecoder(r) }

// ParseCodec looks up a codec by its name.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gob":
		return Gob, nil
	case "json":
		return JSON, nil
	default:
		return nil, ErrUnknownCodec.F("%q", name)
	}
}

// Register records a type for the objects that are read as interface values.
// It is gob.Register, so the same rules apply.
func Register(v any) { gob.Register(v) }

// RegisterName is gob.RegisterName.
func RegisterName(name string, v any) { gob.RegisterName(name, v) }
