// Package cache implements the size-bounded, TTL-aware read-through cache
// shared by the service facade: an LRU eviction policy over entries that
// also expire on their own, with single-flight deduplication of concurrent
// misses for the same key.
package cache
