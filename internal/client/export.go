package client

import (
	"io"

	"studentadmin/internal/export"
)

// Export writes the queried view as an .xlsx workbook.
func (s *Store) Export(q Query, w io.Writer) error {
	return export.WriteRoster(s.View(q), w)
}
