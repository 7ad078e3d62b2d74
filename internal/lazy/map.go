// Package lazy provides a concurrent map whose values are computed on first access.
package lazy

import (
	"sync"
	"sync/atomic"

	"caster-engine/internal/errors"
)

// Map computes the value of every key at most once. Callers asking for a key that is being
// computed wait for that computation and observe its result, errors included. Entries are
// never evicted. The zero Map is ready to use and must not be copied after first use.
//
// A compute function must not ask the same Map for its own key: that call would wait forever.
type Map[K comparable, V any] struct {
	entries sync.Map // K -> *entry[V]
	size    atomic.Int64
}

type entry[V any] struct {
	once  sync.Once
	done  atomic.Bool
	value V
	err   error
}

// GetOrCompute returns the value stored for key, running compute if the key was never seen.
func (m *Map[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if found, ok := m.entries.Load(key); ok {
		e := found.(*entry[V])
		if e.done.Load() {
			return e.value, e.err
		}

		return m.wait(e, compute)
	}

	actual, loaded := m.entries.LoadOrStore(key, &entry[V]{})
	if !loaded {
		m.size.Add(1)
	}

	return m.wait(actual.(*entry[V]), compute)
}

func (m *Map[K, V]) wait(e *entry[V], compute func() (V, error)) (V, error) {
	e.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				e.err = errors.Newf("lazy: compute panicked: %v", r)
			}

			e.done.Store(true)
		}()

		e.value, e.err = compute()
	})

	return e.value, e.err
}

// Load returns the computed value for key. Keys still being computed are reported as absent.
func (m *Map[K, V]) Load(key K) (V, bool) {
	found, ok := m.entries.Load(key)
	if !ok {
		var zero V
		return zero, false
	}

	e := found.(*entry[V])
	if !e.done.Load() {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Range calls fn for every computed entry until fn returns false.
func (m *Map[K, V]) Range(fn func(key K, value V, err error) bool) {
	m.entries.Range(func(k, v any) bool {
		e := v.(*entry[V])
		if !e.done.Load() {
			return true
		}

		return fn(k.(K), e.value, e.err)
	})
}

// Keys returns the keys of all computed entries in unspecified order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Range(func(key K, _ V, _ error) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

// Len returns the number of keys ever requested, including those still being computed.
func (m *Map[K, V]) Len() int {
	return int(m.size.Load())
}
