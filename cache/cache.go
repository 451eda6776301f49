package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	SlotKey    = "SLOTS:"
	DoctorKey  = "DOCTOR:"
	CatalogKey = "CATALOG:"

	DefaultMemorySize = 1024
)

type Cache interface {
	GetCache(ctx context.Context, key string, out interface{}) (bool, error)
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteCache(ctx context.Context, keys ...string) error
}

func SlotCacheKey(doctorID, date string) string {
	return SlotKey + doctorID + ":" + date
}

// Memory is an in-process Cache used when no redis server is configured.
// It holds at most size entries; the LRU drops anything older than ttl on its
// own, and a shorter per-call ttl is checked on read.
type Memory struct {
	lru *expirable.LRU[string, memoryItem]
	now func() time.Time
}

type memoryItem struct {
	value   []byte
	expires time.Time
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &Memory{
		lru: expirable.NewLRU[string, memoryItem](size, nil, ttl),
		now: time.Now,
	}
}

func (m *Memory) GetCache(_ context.Context, key string, out interface{}) (bool, error) {
	item, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !item.expires.IsZero() && m.now().After(item.expires) {
		m.lru.Remove(key)
		return false, nil
	}
	return true, json.Unmarshal(item.value, out)
}

func (m *Memory) SetCache(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	item := memoryItem{value: raw}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.lru.Add(key, item)
	return nil
}

func (m *Memory) DeleteCache(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.lru.Remove(k)
	}
	return nil
}

// Len is the number of entries currently held.
func (m *Memory) Len() int {
	return m.lru.Len()
}
