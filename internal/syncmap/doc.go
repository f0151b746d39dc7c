// Package syncmap offers a lightweight, generic, concurrency-safe map guarded
// by a sync.RWMutex, with an at-most-once-per-key compute helper used for
// write-once caches.
package syncmap
