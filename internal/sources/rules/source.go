package rules

import (
	"sync"

	"github.com/bkmarks/bkmarkd/internal/domain"
)

// Source hands out the currently active rule table. The scheduler swaps in
// a new table on reload while request handlers keep reading.
type Source struct {
	mu    sync.RWMutex
	table *domain.RuleTable
}

// NewSource creates a source seeded with table, or the built-in defaults
// when table is nil.
func NewSource(table *domain.RuleTable) *Source {
	if table == nil {
		table = domain.DefaultRuleTable()
	}
	return &Source{table: table}
}

// Current returns the active rule table.
func (s *Source) Current() *domain.RuleTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Replace swaps in a new rule table. A nil table is ignored.
func (s *Source) Replace(table *domain.RuleTable) {
	if table == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}
