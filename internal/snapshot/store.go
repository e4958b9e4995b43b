package snapshot

import "sync"

// Store holds the most recently published Snapshot. It has a single writer
// (the sampler) and any number of readers.
//
// Publish replaces the stored pointer and never touches the previous value,
// so a reader that obtained a Snapshot from Load can keep using it while a
// newer one is installed. Readers must not modify what Load returns.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
	version uint64
}

// NewStore returns an empty store. Load returns nil until the first Publish.
func NewStore() *Store {
	return &Store{}
}

// Publish installs s as the current snapshot.
func (st *Store) Publish(s *Snapshot) {
	if s == nil {
		return
	}
	st.mu.Lock()
	st.current = s
	st.version++
	st.mu.Unlock()
}

// Load returns the current snapshot without blocking on the sampler.
func (st *Store) Load() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Version returns a counter incremented by every Publish.
func (st *Store) Version() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.version
}

// LoadVersion returns the current snapshot together with its version.
func (st *Store) LoadVersion() (*Snapshot, uint64) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current, st.version
}
