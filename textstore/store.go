// Package textstore interns the POS tag strings (ner/model.DecodeSentence)
// that repeat across every sentence a worker processes, so equal tags
// share one backing string instead of one allocation per token.
package textstore

import (
	"strings"
	"sync"
)

var instance *store
var initializer sync.Once

type Store interface {
	GetPointer(s string) *string
	GetPointers(ss []string) []*string
}

// store is adapted from utils/string_store.go's sync.Map pool, dropped
// down to this domain's lifecycle: that store also carries a
// Lock/IsLocked freeze step because its pool backs an open-ended
// clinical vocabulary loaded from multi-megabyte dictionaries — without
// freezing it once that load phase finishes, a long-running process
// would keep growing the pool forever on every never-before-seen term.
// Here the only interned field is Tag, a small, closed set fixed by the
// morphological analyzer upstream, so there is no unbounded-growth
// phase to protect against and no freeze step is needed: GetPointer
// always interns.
type store struct {
	pool sync.Map // map[string]*string
}

func (s *store) GetPointer(v string) *string {
	lower := strings.ToLower(v)
	ptr, _ := s.pool.LoadOrStore(lower, &lower)
	return ptr.(*string)
}

func (s *store) GetPointers(vs []string) []*string {
	ptrs := make([]*string, len(vs))
	for i, v := range vs {
		ptrs[i] = s.GetPointer(v)
	}
	return ptrs
}

// Global returns the process-wide tag string pool.
func Global() Store {
	initializer.Do(func() {
		instance = &store{}
	})
	return instance
}
