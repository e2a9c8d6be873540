package activator

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

func (r *repoPG) Create(ctx context.Context, a *Activator) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO activators (id, name)
		VALUES ($1, $2)
		RETURNING created_at`,
		a.ID, a.Name).Scan(&a.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "activator")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Activator, error) {
	var a Activator
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM activators WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.CreatedAt)
	if err != nil {
		return nil, apperr.FromPG(err, "activator")
	}

	comps, err := r.compositionsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	a.Compositions = comps[id]
	if a.Compositions == nil {
		a.Compositions = []Composition{}
	}
	return &a, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Activator, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at FROM activators ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.FromPG(err, "activator")
	}
	defer rows.Close()

	var items []*Activator
	var ids []uuid.UUID
	for rows.Next() {
		var a Activator
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		comps, err := r.compositionsFor(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, a := range items {
			a.Compositions = comps[a.ID]
			if a.Compositions == nil {
				a.Compositions = []Composition{}
			}
		}
	}
	return items, nil
}

// compositionsFor loads compositions with substance names for a set of
// activators in one query.
func (r *repoPG) compositionsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Composition, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ac.activator_id, ac.substance_id, ac.volume_ml, s.name
		FROM activator_compositions ac
		JOIN substances s ON s.id = ac.substance_id
		WHERE ac.activator_id = ANY($1)
		ORDER BY s.name ASC`, ids)
	if err != nil {
		return nil, apperr.FromPG(err, "activator composition")
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]Composition)
	for rows.Next() {
		var activatorID uuid.UUID
		var c Composition
		if err := rows.Scan(&activatorID, &c.SubstanceID, &c.VolumeML, &c.SubstanceName); err != nil {
			return nil, err
		}
		out[activatorID] = append(out[activatorID], c)
	}
	return out, rows.Err()
}

func (r *repoPG) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE activators SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return apperr.FromPG(err, "activator")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("activator")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM activators WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "activator")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("activator")
	}
	return nil
}

func (r *repoPG) AddComposition(ctx context.Context, activatorID, substanceID uuid.UUID, volumeML float64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO activator_compositions (id, activator_id, substance_id, volume_ml)
		VALUES ($1, $2, $3, $4)`,
		uuid.New(), activatorID, substanceID, volumeML)
	if err != nil {
		return apperr.FromPG(err, "activator composition")
	}
	return nil
}

func (r *repoPG) DeleteCompositions(ctx context.Context, activatorID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM activator_compositions WHERE activator_id = $1`, activatorID)
	if err != nil {
		return apperr.FromPG(err, "activator composition")
	}
	return nil
}

func (r *repoPG) CompositionExists(ctx context.Context, activatorID, substanceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activator_compositions
			WHERE activator_id = $1 AND substance_id = $2
		)`, activatorID, substanceID).Scan(&exists)
	if err != nil {
		return false, apperr.FromPG(err, "activator composition")
	}
	return exists, nil
}
