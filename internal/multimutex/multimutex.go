// Package multimutex provides a set of mutexes keyed by an arbitrary
// comparable value, so that only one goroutine holds the lock per key.
package multimutex

import (
	"fmt"
	"sync"
)

// cntMutex is a mutex with a count of the callers holding or waiting on it.
type cntMutex struct {
	cnt int
	sync.Mutex
}

// Mutex keeps track of a set of mutexes keyed by K. Entries are removed once
// no goroutine holds or waits for them.
type Mutex[K comparable] struct {
	// mutexes maps a key to the cntMutex shared by every caller
	// requesting access for that key.
	mutexes map[K]*cntMutex

	// mapMtx synchronizes access to the mutexes map.
	mapMtx sync.Mutex
}

// New creates a new Mutex.
func New[K comparable]() *Mutex[K] {
	return &Mutex[K]{
		mutexes: make(map[K]*cntMutex),
	}
}

// Lock locks the mutex for key, blocking until it is available.
func (c *Mutex[K]) Lock(key K) {
	c.mapMtx.Lock()
	mtx, ok := c.mutexes[key]
	if ok {
		// One more goroutine is now waiting for it.
		mtx.cnt++
	} else {
		mtx = &cntMutex{cnt: 1}
		c.mutexes[key] = mtx
	}
	c.mapMtx.Unlock()

	mtx.Lock()
}

// Unlock unlocks the mutex for key. It is a run-time error if the key is not
// locked on entry to Unlock.
func (c *Mutex[K]) Unlock(key K) {
	c.mapMtx.Lock()

	mtx, ok := c.mutexes[key]
	if !ok {
		c.mapMtx.Unlock()
		panic(fmt.Sprintf("double unlock for key %v", key))
	}

	// The last waiter removes the entry. This is safe under mapMtx: every
	// other waiter has either already incremented cnt or will create a
	// fresh mutex.
	mtx.cnt--
	if mtx.cnt == 0 {
		delete(c.mutexes, key)
	}
	c.mapMtx.Unlock()

	mtx.Unlock()
}

// With runs fn while holding the lock for key.
func (c *Mutex[K]) With(key K, fn func() error) error {
	c.Lock(key)
	defer c.Unlock(key)
	return fn()
}

// len returns the number of tracked keys.
func (c *Mutex[K]) len() int {
	c.mapMtx.Lock()
	defer c.mapMtx.Unlock()
	return len(c.mutexes)
}
