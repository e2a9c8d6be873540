package cycle

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const cycleCols = `id, patient_id, max_sessions, periodicity, type, cycle_date, created_at`

func scanCycle(row pgx.Row) (*Cycle, error) {
	var c Cycle
	err := row.Scan(&c.ID, &c.PatientID, &c.MaxSessions, &c.Periodicity,
		&c.Type, &c.CycleDate, &c.CreatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Cycle) error {
	c.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO cycles (id, patient_id, max_sessions, periodicity, type, cycle_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		c.ID, c.PatientID, c.MaxSessions, c.Periodicity, c.Type, c.CycleDate).Scan(&c.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "cycle")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	c, err := scanCycle(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cycleCols+` FROM cycles WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "cycle")
	}
	return c, nil
}

func (r *repoPG) GetForUpdate(ctx context.Context, id uuid.UUID) (*Cycle, error) {
	c, err := scanCycle(r.conn(ctx).QueryRow(ctx,
		`SELECT `+cycleCols+` FROM cycles WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "cycle")
	}
	return c, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Cycle, error) {
	return r.list(ctx, `SELECT `+cycleCols+` FROM cycles ORDER BY created_at DESC`)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Cycle, error) {
	return r.list(ctx,
		`SELECT `+cycleCols+` FROM cycles WHERE patient_id = $1 ORDER BY created_at ASC`,
		patientID)
}

func (r *repoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*Cycle, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.FromPG(err, "cycle")
	}
	defer rows.Close()

	var items []*Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, c *Cycle) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE cycles SET max_sessions = $2, periodicity = $3, type = $4, cycle_date = $5
		WHERE id = $1`,
		c.ID, c.MaxSessions, c.Periodicity, c.Type, c.CycleDate)
	if err != nil {
		return apperr.FromPG(err, "cycle")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cycle")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM cycles WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "cycle")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cycle")
	}
	return nil
}
