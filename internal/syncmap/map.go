package syncmap

import "sync"

// Map is a thread-safe generic map structure
type Map[K comparable, V any] struct {
	mux sync.RWMutex
	m   map[K]V
}

// New creates a new instance of Map
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m: make(map[K]V),
	}
}

// Get retrieves an item by key
func (r *Map[K, V]) Get(key K) (V, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[key]
	return v, ok
}

// Set adds or updates an item by key
func (r *Map[K, V]) Set(key K, value V) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.m[key] = value
}

// SetIfAbsent stores value unless the key is already present; it reports
// whether the value was stored.
func (r *Map[K, V]) SetIfAbsent(key K, value V) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	if _, ok := r.m[key]; ok {
		return false
	}
	r.m[key] = value
	return true
}

// GetOrCompute returns the cached value for key, computing it when absent.
// compute runs outside the lock: concurrent callers may compute the same key,
// but only the first stored result is kept and returned to everyone.  Errors
// are not cached.
func (r *Map[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := r.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	if existing, ok := r.m[key]; ok {
		return existing, nil
	}
	r.m[key] = v
	return v, nil
}

// Delete removes an item by key and reports whether it was present
func (r *Map[K, V]) Delete(key K) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	_, ok := r.m[key]
	delete(r.m, key)
	return ok
}

// Len returns the number of items
func (r *Map[K, V]) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.m)
}

// Keys returns a slice of all keys
func (r *Map[K, V]) Keys() []K {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]K, 0, len(r.m))
	for k := range r.m {
		ret = append(ret, k)
	}
	return ret
}

// List returns a slice of all items
func (r *Map[K, V]) List() []V {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]V, 0, len(r.m))
	for _, v := range r.m {
		ret = append(ret, v)
	}
	return ret
}
