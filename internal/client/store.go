// Package client holds the application-side view of the record list: one
// authoritative in-memory collection seeded by a full fetch and reconciled
// against realtime events. All searching, filtering, sorting, pagination and
// export run over this collection; the server has no query parameters for
// them.
package client

import (
	"sort"
	"strings"
	"sync"

	"studentadmin/internal/student"
)

// Store owns the ordered record collection. It is safe for concurrent use by
// the event loop and the rendering side.
type Store struct {
	mu      sync.RWMutex
	records []student.Record
}

func NewStore() *Store {
	return &Store{}
}

// Reset replaces the collection with a fresh server fetch. Used at login and
// after a dropped connection, since the event channel has no gap recovery.
func (s *Store) Reset(records []student.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]student.Record(nil), records...)
}

// ApplyCreated prepends the record unless an entry with that id is already
// held, making duplicate delivery a no-op.
func (s *Store) ApplyCreated(rec student.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == rec.ID {
			return
		}
	}
	s.records = append([]student.Record{rec}, s.records...)
}

// ApplyUpdated replaces the matching entry, but only when the incoming entry
// is not older than the held one. A stale update racing a newer one loses.
func (s *Store) ApplyUpdated(rec student.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == rec.ID {
			if rec.UpdatedAt.Before(r.UpdatedAt) {
				return
			}
			s.records[i] = rec
			return
		}
	}
}

// ApplyDeleted removes the entry with the given id, if held.
func (s *Store) ApplyDeleted(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// Len reports the number of held records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the full collection in its current order.
func (s *Store) Records() []student.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]student.Record(nil), s.records...)
}

// Query selects and orders a slice of the collection for display.
type Query struct {
	Search  string // matches nama, no_induk or nik, case-insensitive
	Status  string // exact status filter, empty for all
	SortBy  string // "id", "nama" or "updated_at"; empty keeps held order
	Desc    bool
	Page    int // 1-based; 0 disables pagination
	PerPage int
}

// View evaluates a query against the current collection.
func (s *Store) View(q Query) []student.Record {
	res := s.Records()

	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		filtered := res[:0]
		for _, r := range res {
			if strings.Contains(strings.ToLower(r.Nama), needle) ||
				strings.Contains(strings.ToLower(r.NoInduk), needle) ||
				strings.Contains(strings.ToLower(r.NIK), needle) {
				filtered = append(filtered, r)
			}
		}
		res = filtered
	}
	if q.Status != "" {
		filtered := res[:0]
		for _, r := range res {
			if r.Status == q.Status {
				filtered = append(filtered, r)
			}
		}
		res = filtered
	}

	switch q.SortBy {
	case "id":
		sort.SliceStable(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	case "nama":
		sort.SliceStable(res, func(i, j int) bool {
			return strings.ToLower(res[i].Nama) < strings.ToLower(res[j].Nama)
		})
	case "updated_at":
		sort.SliceStable(res, func(i, j int) bool { return res[i].UpdatedAt.Before(res[j].UpdatedAt) })
	}
	if q.Desc && q.SortBy != "" {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}

	if q.Page > 0 && q.PerPage > 0 {
		start := (q.Page - 1) * q.PerPage
		if start >= len(res) {
			return []student.Record{}
		}
		end := start + q.PerPage
		if end > len(res) {
			end = len(res)
		}
		res = res[start:end]
	}
	return res
}
