package clockfmt

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultGCSize bounds how many unreferenced ScanPrograms the Cache keeps
// around for reuse before it starts freeing them, mirroring
// CLOCK_FMT_SCN_STORAGE_GC_SIZE in the source this is ported from.
const DefaultGCSize = 32

// Cache interns compiled ScanPrograms by format string. Unlike a plain
// memoizing cache, entries are reference-counted: a format string stays
// compiled for as long as any caller holds a Handle to it, and once the
// last holder releases it the program moves onto a bounded LIFO free
// list rather than being freed immediately, so a format that is
// repeatedly acquired and released (the common case for a long-lived
// scanner reusing the same handful of formats) doesn't pay recompilation
// cost every time.
//
// The zero value is not ready to use; construct with NewCache.
type Cache struct {
	GCSize int

	mu      sync.Mutex
	byFmt   map[string]*ScanProgram
	gcOrder []*ScanProgram
	log     *logrus.Entry
}

// NewCache constructs a Cache with the given GC free-list size. A size of
// zero uses DefaultGCSize.
func NewCache(gcSize int) *Cache {
	if gcSize <= 0 {
		gcSize = DefaultGCSize
	}
	return &Cache{
		GCSize: gcSize,
		byFmt:  make(map[string]*ScanProgram),
		log:    logrus.WithField("component", "clockfmt.cache"),
	}
}

// Handle is an opaque reference to an interned ScanProgram. Callers must
// pass it to Cache.Release exactly once when done with it.
type Handle struct {
	prog *ScanProgram
}

// Acquire returns the compiled ScanProgram for format, compiling and
// interning it on first use. Each call must be matched by exactly one
// Release.
func (c *Cache) Acquire(format string) (Handle, error) {
	c.mu.Lock()
	if prog, ok := c.byFmt[format]; ok {
		c.retainLocked(prog)
		c.mu.Unlock()
		return Handle{prog: prog}, nil
	}
	c.mu.Unlock()

	prog, err := compile(format)
	if err != nil {
		return Handle{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byFmt[format]; ok {
		// Lost a race with another acquirer; use theirs, discard ours.
		c.retainLocked(existing)
		return Handle{prog: existing}, nil
	}

	prog.ExternalRefCount = 1
	c.byFmt[format] = prog
	c.log.WithField("format", format).Debug("compiled and interned new scan program")
	return Handle{prog: prog}, nil
}

// Release gives up h's reference. Once a program has no remaining
// references it is pushed onto the GC free list rather than discarded
// immediately; it is only actually evicted from byFmt once the free list
// exceeds GCSize, and then the entry released longest ago goes first.
func (c *Cache) Release(h Handle) {
	if h.prog == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prog := h.prog
	if prog.ExternalRefCount == 0 {
		return
	}
	prog.ExternalRefCount--
	if prog.ExternalRefCount > 0 {
		return
	}

	prog.inGC = true
	c.gcOrder = append(c.gcOrder, prog)
	c.log.WithField("format", prog.Format).Debug("scan program released to GC free list")

	for len(c.gcOrder) > c.GCSize {
		c.evictOldestLocked()
	}
}

// retainLocked increments prog's reference count, pulling it back out of
// the GC free list if it was sitting there unreferenced.
func (c *Cache) retainLocked(prog *ScanProgram) {
	if prog.inGC {
		c.removeFromGCLocked(prog)
	}
	prog.ExternalRefCount++
}

// evictOldestLocked frees the least-recently-released entry at the head
// of the LIFO free list. "LIFO" describes admission order into the free
// list (most recently released goes on top and is reused first); eviction
// always takes the opposite end, so a program that has sat unreferenced
// longest is the one actually freed.
func (c *Cache) evictOldestLocked() {
	if len(c.gcOrder) == 0 {
		return
	}
	victim := c.gcOrder[0]
	c.gcOrder = c.gcOrder[1:]
	victim.inGC = false
	delete(c.byFmt, victim.Format)
	c.log.WithField("format", victim.Format).Debug("evicted scan program from cache")
}

func (c *Cache) removeFromGCLocked(prog *ScanProgram) {
	for i, p := range c.gcOrder {
		if p == prog {
			c.gcOrder = append(c.gcOrder[:i], c.gcOrder[i+1:]...)
			break
		}
	}
	prog.inGC = false
}

// Len reports how many distinct formats are currently interned, whether
// referenced or sitting in the GC free list.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byFmt)
}
