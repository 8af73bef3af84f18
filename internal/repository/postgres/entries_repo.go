package postgres

import (
	"context"

	"github.com/gcclean/waste-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type entriesRepo struct{ pool *pgxpool.Pool }

const entryColumns = `id, type, quantity, location, entry_date::text, collector, department, user_id, created_at`

func (r *entriesRepo) Create(e models.Entry) (models.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(context.Background(),
		`INSERT INTO trash_entries(id, type, quantity, location, entry_date, collector, department, user_id)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING `+entryColumns,
		e.ID, e.Type, e.Quantity, e.Location, e.Date, e.Collector, e.Department, e.UserID,
	).Scan(&e.ID, &e.Type, &e.Quantity, &e.Location, &e.Date, &e.Collector, &e.Department, &e.UserID, &e.CreatedAt)
	return e, err
}

func (r *entriesRepo) GetByID(id string) (models.Entry, error) {
	var e models.Entry
	err := r.pool.QueryRow(context.Background(),
		`SELECT `+entryColumns+` FROM trash_entries WHERE id=$1`, id,
	).Scan(&e.ID, &e.Type, &e.Quantity, &e.Location, &e.Date, &e.Collector, &e.Department, &e.UserID, &e.CreatedAt)
	return e, err
}

// Update touches the mutable fields only; collector and user_id stay as
// they were written at creation.
func (r *entriesRepo) Update(id string, u models.EntryUpdate) error {
	_, err := r.pool.Exec(context.Background(),
		`UPDATE trash_entries SET type=$2, quantity=$3, location=$4, entry_date=$5 WHERE id=$1`,
		id, u.Type, u.Quantity, u.Location, u.Date,
	)
	return err
}

func (r *entriesRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM trash_entries WHERE id=$1`, id)
	return err
}

func (r *entriesRepo) ListByUser(userID string) ([]models.Entry, error) {
	return r.list(`SELECT `+entryColumns+` FROM trash_entries WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *entriesRepo) ListAll() ([]models.Entry, error) {
	return r.list(`SELECT ` + entryColumns + ` FROM trash_entries ORDER BY created_at`)
}

func (r *entriesRepo) ExistsByCollector(name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM trash_entries WHERE collector=$1)`, name,
	).Scan(&exists)
	return exists, err
}

func (r *entriesRepo) list(q string, args ...any) ([]models.Entry, error) {
	rows, err := r.pool.Query(context.Background(), q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.Type, &e.Quantity, &e.Location, &e.Date, &e.Collector, &e.Department, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
