package student

import (
	"errors"
	"time"
)

// Enrollment status values. Status defaults to Aktif on create.
const (
	StatusAktif      = "Aktif"
	StatusTidakAktif = "Tidak Aktif"
	StatusLulus      = "Lulus"
	StatusKeluar     = "Keluar"
)

var (
	// ErrNotFound is returned when an operation targets a nonexistent id.
	ErrNotFound = errors.New("student not found")
	// ErrValidation is returned when required fields are missing or a field
	// holds a value outside its allowed set.
	ErrValidation = errors.New("validation failed")
)

// Record is a student entry. JSON field names follow the wire contract of the
// administration frontend.
type Record struct {
	ID           int64     `json:"id"`
	Nama         string    `json:"nama"`
	TTL          string    `json:"ttl"`
	Alamat       string    `json:"alamat"`
	NoHP         string    `json:"no_hp"`
	NoInduk      string    `json:"no_induk"`
	Pendidikan   string    `json:"pendidikan"`
	JenisKelamin string    `json:"jenis_kelamin"`
	Fisik        string    `json:"fisik"`
	TbBb         string    `json:"tb_bb"`
	Kejuruan     string    `json:"kejuruan"`
	TahunMasuk   string    `json:"tahun_masuk"`
	Status       string    `json:"status"`
	NIK          string    `json:"nik"`
	Email        string    `json:"email"`
	Keterangan   string    `json:"keterangan"`
	FotoURL      string    `json:"foto_url"`
	CreatedBy    int64     `json:"created_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields carries the mutable part of a record as submitted by clients.
// ID, CreatedBy and UpdatedAt are never taken from input.
type Fields struct {
	Nama         string `json:"nama"`
	TTL          string `json:"ttl"`
	Alamat       string `json:"alamat"`
	NoHP         string `json:"no_hp"`
	NoInduk      string `json:"no_induk"`
	Pendidikan   string `json:"pendidikan"`
	JenisKelamin string `json:"jenis_kelamin"`
	Fisik        string `json:"fisik"`
	TbBb         string `json:"tb_bb"`
	Kejuruan     string `json:"kejuruan"`
	TahunMasuk   string `json:"tahun_masuk"`
	Status       string `json:"status"`
	NIK          string `json:"nik"`
	Email        string `json:"email"`
	Keterangan   string `json:"keterangan"`
}

func validStatus(s string) bool {
	switch s {
	case StatusAktif, StatusTidakAktif, StatusLulus, StatusKeluar:
		return true
	}
	return false
}
