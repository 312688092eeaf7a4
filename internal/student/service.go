package student

import (
	"context"
	"fmt"
	"io"

	"studentadmin/internal/metrics"
)

// Realtime event names pushed to connected clients.
const (
	EventCreated = "studentCreated"
	EventUpdated = "studentUpdated"
	EventDeleted = "studentDeleted"
)

// Store is the persistence seam used by the Service.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int64) (Record, error)
	GetName(ctx context.Context, id int64) (string, error)
	Insert(ctx context.Context, f Fields, createdBy int64) (int64, error)
	Update(ctx context.Context, id int64, f Fields) error
	Delete(ctx context.Context, id int64) error
	SetPhotoURL(ctx context.Context, id int64, url string) error
}

// Recorder appends activity log entries. Implementations are best-effort and
// must never return an error to the mutation path.
type Recorder interface {
	Record(ctx context.Context, actor, action string, entityID int64, details string)
}

// Publisher fans mutation events out to connected clients.
type Publisher interface {
	Publish(event string, payload any)
}

// PhotoStore saves uploaded photos and removes them again when the record
// they were meant for turns out not to exist.
type PhotoStore interface {
	Save(id int64, originalName string, r io.Reader) (diskPath, publicURL string, err error)
	Remove(diskPath string) error
}

// Service implements the student CRUD operations. Every mutation re-reads the
// row after writing so returned and broadcast data always reflects the
// persisted state, then records an activity entry and publishes an event.
type Service struct {
	store    Store
	audit    Recorder
	notifier Publisher
	photos   PhotoStore
}

func NewService(store Store, audit Recorder, notifier Publisher, photos PhotoStore) *Service {
	return &Service{store: store, audit: audit, notifier: notifier, photos: photos}
}

// List returns all records, newest identity first. No server-side filtering;
// clients filter their in-memory copy.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// Create validates and inserts a record, then re-reads it to pick up the
// generated id and timestamp.
func (s *Service) Create(ctx context.Context, actor string, actorID int64, f Fields) (Record, error) {
	if f.Status == "" {
		f.Status = StatusAktif
	}
	if err := validate(f); err != nil {
		return Record{}, err
	}
	id, err := s.store.Insert(ctx, f, actorID)
	if err != nil {
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	metrics.StudentMutations.WithLabelValues("create").Inc()
	s.audit.Record(ctx, actor, "CREATE", rec.ID, fmt.Sprintf("Membuat siswa baru: '%s' (ID: %d)", rec.Nama, rec.ID))
	s.notifier.Publish(EventCreated, rec)
	return rec, nil
}

// Update overwrites all mutable fields of an existing record.
func (s *Service) Update(ctx context.Context, actor string, id int64, f Fields) (Record, error) {
	if f.Status == "" {
		f.Status = StatusAktif
	}
	if err := validate(f); err != nil {
		return Record{}, err
	}
	if err := s.store.Update(ctx, id, f); err != nil {
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	metrics.StudentMutations.WithLabelValues("update").Inc()
	s.audit.Record(ctx, actor, "UPDATE", rec.ID, fmt.Sprintf("Memperbarui siswa: '%s' (ID: %d)", rec.Nama, rec.ID))
	s.notifier.Publish(EventUpdated, rec)
	return rec, nil
}

// Delete removes a record permanently. The name is fetched before the delete
// executes so the audit entry stays meaningful after the row is gone.
func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	nama, err := s.store.GetName(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.StudentMutations.WithLabelValues("delete").Inc()
	s.audit.Record(ctx, actor, "DELETE", id, fmt.Sprintf("Menghapus siswa: '%s' (ID: %d)", nama, id))
	s.notifier.Publish(EventDeleted, map[string]int64{"id": id})
	return nil
}

// AttachPhoto stores an uploaded photo and points the record at it. When the
// record does not exist the already-written file is removed so no orphan
// stays on disk.
func (s *Service) AttachPhoto(ctx context.Context, actor string, id int64, originalName string, file io.Reader) (Record, error) {
	diskPath, publicURL, err := s.photos.Save(id, originalName, file)
	if err != nil {
		return Record{}, err
	}
	if err := s.store.SetPhotoURL(ctx, id, publicURL); err != nil {
		_ = s.photos.Remove(diskPath)
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	metrics.StudentMutations.WithLabelValues("upload_photo").Inc()
	s.audit.Record(ctx, actor, "UPDATE", rec.ID, fmt.Sprintf("Mengupload foto untuk siswa: '%s' (ID: %d)", rec.Nama, rec.ID))
	s.notifier.Publish(EventUpdated, rec)
	return rec, nil
}

func validate(f Fields) error {
	if f.Nama == "" || f.TTL == "" {
		return fmt.Errorf("%w: nama dan ttl harus diisi", ErrValidation)
	}
	if f.Status != "" && !validStatus(f.Status) {
		return fmt.Errorf("%w: status tidak dikenal", ErrValidation)
	}
	return nil
}
