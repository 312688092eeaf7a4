// Package export renders the client-side record view as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"studentadmin/internal/student"
)

const sheetName = "Data Siswa"

var header = []string{
	"ID", "Nama", "TTL", "Alamat", "No HP", "No Induk", "Pendidikan",
	"Jenis Kelamin", "Kejuruan", "Tahun Masuk", "Status", "NIK", "Email", "Keterangan",
}

// Roster builds a workbook from the given records, in the order provided.
// The caller passes its already filtered and sorted view.
func Roster(records []student.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for col, h := range header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(header)) + "1"
	_ = f.SetCellStyle(sheetName, "A1", end, bold)
	_ = f.AutoFilter(sheetName, "A1:"+end, nil)

	for i, rec := range records {
		row := []string{
			fmt.Sprintf("%d", rec.ID), rec.Nama, rec.TTL, rec.Alamat, rec.NoHP,
			rec.NoInduk, rec.Pendidikan, rec.JenisKelamin, rec.Kejuruan,
			rec.TahunMasuk, rec.Status, rec.NIK, rec.Email, rec.Keterangan,
		}
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), i+2)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// column widths from header plus the first rows
	for c := 1; c <= len(header); c++ {
		w := float64(len(header[c-1])) * 1.2
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}
	return f, nil
}

// WriteRoster streams the workbook to w.
func WriteRoster(records []student.Record, w io.Writer) error {
	f, err := Roster(records)
	if err != nil {
		return err
	}
	return f.Write(w)
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
