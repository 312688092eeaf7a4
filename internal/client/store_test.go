package client

import (
	"testing"
	"time"

	"studentadmin/internal/student"
)

func rec(id int64, nama, status string, updated time.Time) student.Record {
	return student.Record{ID: id, Nama: nama, Status: status, UpdatedAt: updated}
}

func ids(records []student.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestApplyCreatedIsIdempotent(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{rec(1, "Ani", "Aktif", now)})

	s.ApplyCreated(rec(2, "Budi", "Aktif", now))
	s.ApplyCreated(rec(2, "Budi", "Aktif", now))

	got := ids(s.Records())
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("ids = %v, want [2 1]", got)
	}
}

func TestApplyUpdatedIgnoresStaleEvents(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{rec(1, "Ani", "Aktif", now)})

	s.ApplyUpdated(rec(1, "Ani Lama", "Aktif", now.Add(-time.Minute)))
	if got := s.Records()[0].Nama; got != "Ani" {
		t.Fatalf("stale update applied: nama = %q", got)
	}

	s.ApplyUpdated(rec(1, "Ani Baru", "Lulus", now.Add(time.Minute)))
	got := s.Records()[0]
	if got.Nama != "Ani Baru" || got.Status != "Lulus" {
		t.Fatalf("fresh update not applied: %+v", got)
	}
}

func TestApplyUpdatedEqualTimestampWins(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{rec(1, "Ani", "Aktif", now)})

	s.ApplyUpdated(rec(1, "Ani Sama", "Aktif", now))
	if got := s.Records()[0].Nama; got != "Ani Sama" {
		t.Fatalf("same-timestamp update should apply, nama = %q", got)
	}
}

func TestApplyDeleted(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{rec(2, "Budi", "Aktif", now), rec(1, "Ani", "Aktif", now)})

	s.ApplyDeleted(2)
	s.ApplyDeleted(99)

	got := ids(s.Records())
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("ids = %v, want [1]", got)
	}
}

func TestViewSearchFilterSortPaginate(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{
		{ID: 3, Nama: "Citra", NoInduk: "C-3", Status: "Aktif", UpdatedAt: now},
		{ID: 2, Nama: "Budi", NoInduk: "B-2", Status: "Lulus", UpdatedAt: now.Add(time.Second)},
		{ID: 1, Nama: "Ani", NoInduk: "A-1", Status: "Aktif", UpdatedAt: now.Add(2 * time.Second)},
	})

	if got := s.View(Query{Search: "bud"}); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("search view = %v", ids(got))
	}
	if got := s.View(Query{Search: "a-1"}); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("no_induk search view = %v", ids(got))
	}
	if got := s.View(Query{Status: "Aktif"}); len(got) != 2 {
		t.Fatalf("status view = %v", ids(got))
	}
	if got := s.View(Query{SortBy: "nama"}); got[0].Nama != "Ani" || got[2].Nama != "Citra" {
		t.Fatalf("sort by nama = %v", ids(got))
	}
	if got := s.View(Query{SortBy: "id", Desc: true}); got[0].ID != 3 {
		t.Fatalf("sort desc = %v", ids(got))
	}

	page1 := s.View(Query{SortBy: "id", Page: 1, PerPage: 2})
	page2 := s.View(Query{SortBy: "id", Page: 2, PerPage: 2})
	if len(page1) != 2 || len(page2) != 1 {
		t.Fatalf("pagination sizes = %d, %d", len(page1), len(page2))
	}
	if got := s.View(Query{Page: 5, PerPage: 2}); len(got) != 0 {
		t.Fatalf("past-the-end page should be empty, got %v", ids(got))
	}
}

func TestResetReplacesCollection(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.Reset([]student.Record{rec(1, "Ani", "Aktif", now)})
	s.Reset([]student.Record{rec(2, "Budi", "Aktif", now)})

	got := ids(s.Records())
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("ids = %v, want [2]", got)
	}
}
