// Package xatom memoizes X atom lookups. Atom values are assigned once by the
// server and never change, so entries are interned on first use and kept for
// the lifetime of the connection.
package xatom

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb/xproto"
)

// Interner is the single protocol operation the cache depends on.
type Interner interface {
	InternAtom(name string) (xproto.Atom, error)
}

type Cache struct {
	interner Interner

	mu    sync.RWMutex
	atoms map[string]xproto.Atom
}

func NewCache(interner Interner) *Cache {
	return &Cache{
		interner: interner,
		atoms:    make(map[string]xproto.Atom),
	}
}

// Get returns the atom id for name, interning it on first use. Hits take
// only the read lock, so cached lookups never serialize against each other.
func (c *Cache) Get(name string) (xproto.Atom, error) {
	c.mu.RLock()
	atom, ok := c.atoms[name]
	c.mu.RUnlock()
	if ok {
		return atom, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have interned it between the two locks.
	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}

	atom, err := c.interner.InternAtom(name)
	if err != nil {
		return 0, fmt.Errorf("intern %q: %w", name, err)
	}

	c.atoms[name] = atom
	return atom, nil
}

// Len reports the number of interned atoms.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.atoms)
}
