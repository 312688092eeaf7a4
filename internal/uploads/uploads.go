// Package uploads stores student photos on the local filesystem under a
// publicly served directory, referenced from records by relative URL.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage writes uploaded files under Dir and maps them to PublicURL paths.
type Storage struct {
	Dir       string
	PublicURL string
}

// New creates the upload directory if needed.
func New(dir, publicURL string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{Dir: dir, PublicURL: publicURL}, nil
}

// Save writes the file under student-<id>-<unixms>-<uuid><ext>. The
// timestamp keeps names sortable by upload time; the uuid suffix guards
// against same-millisecond uploads for the same student. It returns both the
// path on disk and the public URL to store on the record.
func (s *Storage) Save(id int64, originalName string, r io.Reader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("student-%d-%d-%s%s", id, time.Now().UnixMilli(), uuid.NewString(), ext)
	diskPath := filepath.Join(s.Dir, name)

	f, err := os.Create(diskPath)
	if err != nil {
		return "", "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(diskPath)
		return "", "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(diskPath)
		return "", "", err
	}
	return diskPath, path.Join(s.PublicURL, name), nil
}

// Remove deletes a stored file, tolerating files already gone.
func (s *Storage) Remove(diskPath string) error {
	err := os.Remove(diskPath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
