// Package codec provides compression for serialized cache entries before
// they reach persistent storage.
package codec

import "io"

// Codec wraps readers and writers with a compression scheme.
type Codec interface {
	// Reader wraps r so reads see decompressed data.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w so writes are compressed.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Name identifies the codec ("zstd", "gzip", "none").
	Name() string
}
