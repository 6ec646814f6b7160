// Package disk implements a file-per-entry persistent cache backend.
//
// Each entry is stored under the cache directory as
// <sha256(key) hex>.cache, containing the codec-compressed JSON encoding
// of the entry. Hash collisions between keys are a known limitation.
// File modification times stand in for access recency: reads re-touch
// the file, and over-budget cleanup deletes oldest files first.
package disk

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voxchain/hoard/internal/cache"
	"github.com/voxchain/hoard/internal/codec"
	"github.com/voxchain/hoard/internal/codec/noopcodec"
)

const fileExt = ".cache"

// Compile-time check that Backend implements cache.Backend.
var _ cache.Backend = (*Backend)(nil)

// Backend is a disk-based cache backend. Writes and cleanup are
// serialized by a mutex; reads are best-effort and unlocked, so a read
// racing a delete behaves as a miss.
type Backend struct {
	dir      string
	maxBytes int64
	codec    codec.Codec
	logger   *zap.Logger

	mu sync.Mutex // guards writes, cleanup, clear
}

// New creates a disk backend rooted at dir, creating the directory if
// needed. maxBytes bounds the total on-disk size; writes that push the
// directory over the budget trigger oldest-first cleanup. A nil codec
// stores entries uncompressed.
func New(dir string, maxBytes int64, c codec.Codec, logger *zap.Logger) (*Backend, error) {
	if c == nil {
		c = noopcodec.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &Backend{
		dir:      dir,
		maxBytes: maxBytes,
		codec:    c,
		logger:   logger,
	}, nil
}

// Get reads and decodes the entry for key. Any read, decompression or
// decode failure degrades to a miss. A successful non-expired read
// touches both the entry and the file's modification time.
func (b *Backend) Get(ctx context.Context, key string) (*cache.Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := b.entryPath(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			b.logger.Debug("cache file unreadable", zap.String("key", key), zap.Error(err))
		}
		return nil, cache.ErrNotFound
	}

	reader, err := b.codec.Reader(bytes.NewReader(raw))
	if err != nil {
		b.logger.Debug("cache file undecodable", zap.String("key", key), zap.Error(err))
		return nil, cache.ErrNotFound
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		b.logger.Debug("cache file undecodable", zap.String("key", key), zap.Error(err))
		return nil, cache.ErrNotFound
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Stale schema or corruption; the entry is unreachable either way.
		b.logger.Debug("cache file undecodable", zap.String("key", key), zap.Error(err))
		return nil, cache.ErrNotFound
	}

	now := time.Now()
	if entry.Expired(now) {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			b.logger.Debug("removing expired cache file", zap.String("key", key), zap.Error(err))
		}
		return nil, cache.ErrNotFound
	}

	entry.Touch(now)
	if err := os.Chtimes(path, now, now); err != nil {
		b.logger.Debug("touching cache file", zap.String("key", key), zap.Error(err))
	}

	return &entry, nil
}

// Set encodes and writes the entry, then trims the directory back under
// the byte budget. Write failures are logged and dropped; the caller's
// Set never fails for them.
func (b *Backend) Set(ctx context.Context, key string, entry *cache.Entry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entry.SizeBytes = cache.ValueSize(entry.Value)

	data, err := json.Marshal(entry)
	if err != nil {
		b.logger.Error("encoding cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}

	var buf bytes.Buffer
	w, err := b.codec.Writer(&buf)
	if err != nil {
		b.logger.Error("creating compressor", zap.String("key", key), zap.Error(err))
		return nil
	}
	if _, err := w.Write(data); err != nil {
		b.logger.Error("compressing cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	if err := w.Close(); err != nil {
		b.logger.Error("compressing cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.WriteFile(b.entryPath(key), buf.Bytes(), 0o644); err != nil {
		b.logger.Error("writing cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}

	b.cleanupLocked()
	return nil
}

// Delete removes the entry's file if present.
func (b *Backend) Delete(ctx context.Context, key string) (bool, error) {
	err := os.Remove(b.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		b.logger.Debug("removing cache file", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Clear removes and recreates the cache directory.
func (b *Backend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.RemoveAll(b.dir); err != nil {
		b.logger.Error("clearing cache directory", zap.Error(err))
		return nil
	}
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		b.logger.Error("recreating cache directory", zap.Error(err))
	}
	return nil
}

// Keys returns the keys of all stored entries. Filenames are hashes, so
// each file is decoded to recover its original key; undecodable files
// are skipped. O(n) over the directory, acceptable at the sizes this
// backend targets.
func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	files, err := b.listFiles()
	if err != nil {
		b.logger.Debug("listing cache directory", zap.Error(err))
		return nil, nil
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		entry, err := b.readEntryFile(f.path)
		if err != nil {
			continue
		}
		keys = append(keys, entry.Key)
	}
	return keys, nil
}

// Size returns the total on-disk size of all entry files.
func (b *Backend) Size(ctx context.Context) (int64, error) {
	files, err := b.listFiles()
	if err != nil {
		b.logger.Debug("listing cache directory", zap.Error(err))
		return 0, nil
	}

	var total int64
	for _, f := range files {
		total += f.size
	}
	return total, nil
}

// Close is a no-op for the disk backend.
func (b *Backend) Close() error {
	return nil
}

// Dir returns the backend's cache directory.
func (b *Backend) Dir() string {
	return b.dir
}

type fileInfo struct {
	path    string
	size    int64
	modTime time.Time
}

// cleanupLocked deletes oldest-modified files until the directory is
// back under the byte budget. Errors are logged and skipped so cleanup
// never fails a write. Callers must hold b.mu.
func (b *Backend) cleanupLocked() {
	files, err := b.listFiles()
	if err != nil {
		b.logger.Debug("listing cache directory", zap.Error(err))
		return
	}

	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= b.maxBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if total <= b.maxBytes {
			break
		}
		if err := os.Remove(f.path); err != nil {
			b.logger.Debug("removing cache file during cleanup", zap.String("path", f.path), zap.Error(err))
			continue
		}
		total -= f.size
	}
}

// listFiles returns the entry files currently in the cache directory.
func (b *Backend) listFiles() ([]fileInfo, error) {
	dirEntries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}

	files := make([]fileInfo, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			path:    filepath.Join(b.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// readEntryFile decodes the entry stored at path.
func (b *Backend) readEntryFile(path string) (*cache.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader, err := b.codec.Reader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// entryPath maps an arbitrary key to a filesystem-safe path.
func (b *Backend) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(b.dir, hex.EncodeToString(sum[:])+fileExt)
}
