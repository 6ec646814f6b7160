package zstdcodec

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_Name(t *testing.T) {
	c := New()
	if got := c.Name(); got != "zstd" {
		t.Errorf("Name() = %q, want zstd", got)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte("cache entry body "), 1024)

	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		t.Fatalf("Writer() error = %v", err)
	}
	if _, err := w.Write(original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if buf.Len() >= len(original) {
		t.Errorf("compressed size = %d, want < %d", buf.Len(), len(original))
	}

	r, err := c.Reader(&buf)
	if err != nil {
		t.Fatalf("Reader() error = %v", err)
	}
	defer r.Close()

	decompressed, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Error("round trip mismatch")
	}
}
