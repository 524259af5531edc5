package icons

import (
	"image"
	"sync"
)

type memoKey struct {
	code string
	size int
}

type memoEntry struct {
	img image.Image
	err error
}

// memo remembers resolved icons, failures included, for the life of one
// Resolver. Nothing expires; a new run starts with an empty memo.
type memo struct {
	items map[memoKey]memoEntry
	mutex sync.Mutex
}

func newMemo() *memo {
	return &memo{items: make(map[memoKey]memoEntry)}
}

func (m *memo) Get(key memoKey) (memoEntry, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry, found := m.items[key]
	return entry, found
}

func (m *memo) Set(key memoKey, entry memoEntry) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.items[key] = entry
}
