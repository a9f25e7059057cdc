package objfile

import "go.llib.dev/frameless/pkg/errorkit"

const (
	ErrEncode             errorkit.Error = "objfile: failed to encode object"
	ErrUnknownCodec       errorkit.Error = "objfile: unknown codec"
	ErrUnknownCompression errorkit.Error = "objfile: unknown compression"
)
