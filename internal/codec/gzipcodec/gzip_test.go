package gzipcodec

import (
	"bytes"
	"io"
	"testing"
)

func TestCodec_Name(t *testing.T) {
	c := New()
	if got := c.Name(); got != "gzip" {
		t.Errorf("Name() = %q, want gzip", got)
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	original := []byte("some cache payload worth compressing")

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
		t.Errorf("round trip = %q, want %q", decompressed, original)
	}
}

func TestCodec_LargeData(t *testing.T) {
	c := New()
	original := bytes.Repeat([]byte("0123456789abcdef"), 4096)

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
		t.Error("large data round trip mismatch")
	}
}

func TestCodec_ReaderRejectsGarbage(t *testing.T) {
	c := New()

	if _, err := c.Reader(bytes.NewReader([]byte("definitely not gzip"))); err == nil {
		t.Error("Reader() error = nil, want error for non-gzip input")
	}
}
