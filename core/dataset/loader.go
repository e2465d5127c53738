package dataset

import (
	"container/list"
	"sync"

	"github.com/FreelyGiven/BibleVersionCodes/core/checksum"
)

// LoaderStats contains loader cache statistics.
type LoaderStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// Loader memoizes parsed datasets for embedding consumers that reload
// per call. Entries are keyed by path and validated by content
// checksum, so an edited file is re-parsed on the next Load. The
// loader is safe for concurrent use; the datasets it returns are
// shared immutable snapshots.
type Loader struct {
	mu        sync.Mutex
	maxSize   int
	entries   map[string]*list.Element
	evictList *list.List
	stats     LoaderStats
}

// loaderEntry is one cached dataset.
type loaderEntry struct {
	path    string
	sum     checksum.Result
	dataset *Dataset
}

// NewLoader creates a loader holding at most maxSize parsed datasets.
// maxSize <= 0 means unlimited.
func NewLoader(maxSize int) *Loader {
	if maxSize < 0 {
		maxSize = 0
	}
	return &Loader{
		maxSize:   maxSize,
		entries:   make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Load returns the parsed dataset at path, reusing the cached parse
// when the file's checksum is unchanged.
func (l *Loader) Load(path string) (*Dataset, error) {
	sum, err := checksum.File(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if el, ok := l.entries[path]; ok {
		ent := el.Value.(*loaderEntry)
		if checksum.Equal(ent.sum, sum) {
			l.evictList.MoveToFront(el)
			l.stats.Hits++
			l.mu.Unlock()
			return ent.dataset, nil
		}
		// Stale content; drop and re-parse.
		l.removeElement(el)
	}
	l.stats.Misses++
	l.mu.Unlock()

	ds, err := Load(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// A concurrent Load may have cached the same path already; keep
	// the existing element rather than double-inserting.
	if el, ok := l.entries[path]; ok {
		l.evictList.MoveToFront(el)
		return el.Value.(*loaderEntry).dataset, nil
	}

	el := l.evictList.PushFront(&loaderEntry{path: path, sum: sum, dataset: ds})
	l.entries[path] = el

	if l.maxSize > 0 && l.evictList.Len() > l.maxSize {
		if oldest := l.evictList.Back(); oldest != nil {
			l.removeElement(oldest)
			l.stats.Evictions++
		}
	}

	return ds, nil
}

// Invalidate drops a cached path, if present.
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if el, ok := l.entries[path]; ok {
		l.removeElement(el)
	}
}

// Len returns the number of cached datasets.
func (l *Loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evictList.Len()
}

// Stats returns a snapshot of the loader statistics.
func (l *Loader) Stats() LoaderStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stats
	s.Size = l.evictList.Len()
	s.MaxSize = l.maxSize
	return s
}

// removeElement removes an entry; callers hold the lock.
func (l *Loader) removeElement(el *list.Element) {
	l.evictList.Remove(el)
	delete(l.entries, el.Value.(*loaderEntry).path)
}
