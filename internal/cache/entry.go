// Package cache defines the value types and the backend contract shared by
// all cache storage implementations.
package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a single cached item together with its bookkeeping metadata.
// Entries are created by a manager on Set and mutated in place on each
// successful read via Touch.
type Entry struct {
	Key          string        `json:"key"`
	Value        any           `json:"value"`
	CreatedAt    time.Time     `json:"created_at"`
	LastAccessed time.Time     `json:"last_accessed"`
	AccessCount  int64         `json:"access_count"`
	TTL          time.Duration `json:"ttl"` // 0 means the entry never expires.
	SizeBytes    int64         `json:"size_bytes"`
	Tags         []string      `json:"tags,omitempty"`
}

// NewEntry builds an entry for value with its size computed up front.
func NewEntry(key string, value any, ttl time.Duration, tags []string) *Entry {
	now := time.Now()
	return &Entry{
		Key:          key,
		Value:        value,
		CreatedAt:    now,
		LastAccessed: now,
		TTL:          ttl,
		SizeBytes:    ValueSize(value),
		Tags:         tags,
	}
}

// Expired reports whether the entry's TTL has elapsed at the given time.
// Entries with a zero TTL never expire.
func (e *Entry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.CreatedAt) > e.TTL
}

// Age returns how long ago the entry was created.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Touch records a successful read.
func (e *Entry) Touch(now time.Time) {
	e.LastAccessed = now
	e.AccessCount++
}

// HasAnyTag reports whether the entry carries at least one of the given tags.
func (e *Entry) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ValueSize estimates the stored size of a value from its JSON encoding.
// Values that cannot be encoded fall back to the UTF-8 length of their
// string representation, so sizing never fails a write.
func ValueSize(value any) int64 {
	data, err := json.Marshal(value)
	if err != nil {
		return int64(len(fmt.Sprint(value)))
	}
	return int64(len(data))
}
