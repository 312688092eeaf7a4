package student

import (
	"context"
	"database/sql"
	"errors"
)

const recordColumns = `id, nama, ttl, COALESCE(alamat,''), COALESCE(no_hp,''), COALESCE(no_induk,''),
	COALESCE(pendidikan,''), COALESCE(jenis_kelamin,''), COALESCE(fisik,''), COALESCE(tb_bb,''),
	COALESCE(kejuruan,''), COALESCE(tahun_masuk,''), status, COALESCE(nik,''), COALESCE(email,''),
	COALESCE(keterangan,''), COALESCE(foto_url,''), COALESCE(created_by,0), updated_at`

// Repository persists student records in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Nama, &rec.TTL, &rec.Alamat, &rec.NoHP, &rec.NoInduk,
		&rec.Pendidikan, &rec.JenisKelamin, &rec.Fisik, &rec.TbBb,
		&rec.Kejuruan, &rec.TahunMasuk, &rec.Status, &rec.NIK, &rec.Email,
		&rec.Keterangan, &rec.FotoURL, &rec.CreatedBy, &rec.UpdatedAt)
	return rec, err
}

// List returns all records, newest identity first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM students ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Get returns a single record by id.
func (r *Repository) Get(ctx context.Context, id int64) (Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM students WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// GetName returns just the name of a record, used to caption audit entries
// before a delete executes.
func (r *Repository) GetName(ctx context.Context, id int64) (string, error) {
	var nama string
	err := r.db.QueryRowContext(ctx, `SELECT nama FROM students WHERE id = $1`, id).Scan(&nama)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return nama, err
}

// Insert writes a new record and returns its generated id.
func (r *Repository) Insert(ctx context.Context, f Fields, createdBy int64) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students
		(nama, ttl, alamat, no_hp, no_induk, pendidikan, jenis_kelamin, fisik, tb_bb,
		 kejuruan, tahun_masuk, status, nik, email, keterangan, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id
	`, f.Nama, f.TTL, f.Alamat, f.NoHP, f.NoInduk, f.Pendidikan, f.JenisKelamin, f.Fisik,
		f.TbBb, f.Kejuruan, f.TahunMasuk, f.Status, f.NIK, f.Email, f.Keterangan, createdBy)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites all mutable fields of a record. ErrNotFound when the id
// does not exist.
func (r *Repository) Update(ctx context.Context, id int64, f Fields) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET
			nama = $2, ttl = $3, alamat = $4, no_hp = $5, no_induk = $6, pendidikan = $7,
			jenis_kelamin = $8, fisik = $9, tb_bb = $10, kejuruan = $11, tahun_masuk = $12,
			status = $13, nik = $14, email = $15, keterangan = $16, updated_at = NOW()
		WHERE id = $1
	`, id, f.Nama, f.TTL, f.Alamat, f.NoHP, f.NoInduk, f.Pendidikan,
		f.JenisKelamin, f.Fisik, f.TbBb, f.Kejuruan, f.TahunMasuk,
		f.Status, f.NIK, f.Email, f.Keterangan)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// Delete removes a record permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRows(res)
}

// SetPhotoURL updates only the photo reference.
func (r *Repository) SetPhotoURL(ctx context.Context, id int64, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET foto_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	return requireRows(res)
}

func requireRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
