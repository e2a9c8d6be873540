package substance

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

const substanceCols = `id, name, created_at`

func scanSubstance(row pgx.Row) (*Substance, error) {
	var s Substance
	err := row.Scan(&s.ID, &s.Name, &s.CreatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Substance) error {
	s.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO substances (id, name)
		VALUES ($1, $2)
		RETURNING created_at`,
		s.ID, s.Name).Scan(&s.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "substance")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Substance, error) {
	s, err := scanSubstance(r.conn(ctx).QueryRow(ctx,
		`SELECT `+substanceCols+` FROM substances WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "substance")
	}
	return s, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Substance, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+substanceCols+` FROM substances ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.FromPG(err, "substance")
	}
	defer rows.Close()

	var items []*Substance
	for rows.Next() {
		s, err := scanSubstance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, s *Substance) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE substances SET name = $2 WHERE id = $1`, s.ID, s.Name)
	if err != nil {
		return apperr.FromPG(err, "substance")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("substance")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM substances WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "substance")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("substance")
	}
	return nil
}
