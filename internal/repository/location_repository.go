package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/vehicle-rental-booking/internal/model"
)

// LocationRepo provides CRUD over the locations table.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationColumns = `id, name, address, city, state, zip_code, latitude, longitude`

func scanLocation(rs rowScanner) (*model.Location, error) {
	var l model.Location
	err := rs.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.State, &l.ZipCode, &l.Latitude, &l.Longitude)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// List returns every location ordered by name.
func (r *LocationRepo) List(ctx context.Context) ([]model.Location, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// GetByID fetches one location or returns ErrLocationNotFound.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	l, err := scanLocation(r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return l, nil
}

// Create inserts a location and populates its generated ID.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	const q = `INSERT INTO locations (name, address, city, state, zip_code, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Latitude, l.Longitude)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// Update overwrites a location's fields.  Returns ErrLocationNotFound when
// no row matches.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	const q = `UPDATE locations SET name = ?, address = ?, city = ?, state = ?, zip_code = ?, latitude = ?, longitude = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Latitude, l.Longitude, l.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a location unless vehicles still reference it, in which
// case it returns ErrLocationInUse.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	var vehicles int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE location_id = ?`, id).Scan(&vehicles); err != nil {
		return err
	}
	if vehicles > 0 {
		return ErrLocationInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLocationNotFound
	}
	return nil
}
