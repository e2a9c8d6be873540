package patient

import (
	"context"
	"errors"

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

const patientCols = `id, name, gender, birth_date, process_number,
	treatment_location, status, preferred_medication_id, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.BirthDate, &p.ProcessNumber,
		&p.TreatmentLocation, &p.Status, &p.PreferredMedicationID, &p.CreatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, name, gender, birth_date, process_number,
			treatment_location, status, preferred_medication_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		p.ID, p.Name, p.Gender, p.BirthDate, p.ProcessNumber,
		p.TreatmentLocation, p.Status, p.PreferredMedicationID).Scan(&p.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "patient")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	return p, nil
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, apperr.FromPG(err, "patient")
	}
	return exists, nil
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET name = $2, gender = $3, birth_date = $4,
			process_number = $5, treatment_location = $6, status = $7,
			preferred_medication_id = $8
		WHERE id = $1`,
		p.ID, p.Name, p.Gender, p.BirthDate, p.ProcessNumber,
		p.TreatmentLocation, p.Status, p.PreferredMedicationID)
	if err != nil {
		return apperr.FromPG(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient")
	}
	return nil
}

func (r *repoPG) ListPage(ctx context.Context, nameFilter string, limit, offset int) ([]listRow, int64, error) {
	var total int64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patients
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`, nameFilter).Scan(&total)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "patient")
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.name, p.process_number, p.gender, p.birth_date,
			COUNT(DISTINCT c.id) AS cycle_count,
			MAX(s.session_date) AS last_session_date,
			p.created_at
		FROM patients p
		LEFT JOIN cycles c ON c.patient_id = p.id
		LEFT JOIN sessions s ON s.cycle_id = c.id
		WHERE $1 = '' OR p.name ILIKE '%' || $1 || '%'
		GROUP BY p.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`, nameFilter, limit, offset)
	if err != nil {
		return nil, 0, apperr.FromPG(err, "patient")
	}
	defer rows.Close()

	var items []listRow
	for rows.Next() {
		var row listRow
		if err := rows.Scan(&row.ID, &row.Name, &row.ProcessNumber, &row.Gender,
			&row.BirthDate, &row.CycleCount, &row.LastSessionDate, &row.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, row)
	}
	return items, total, rows.Err()
}

func (r *repoPG) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`, name, limit, offset)
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const endpointQuery = `
	SELECT s.session_date, bc.created_at, bc.weight_kg, bc.fat_percentage,
		bc.fat_kg, bc.muscle_mass_percentage, bc.h2o_percentage,
		bc.metabolic_age, bc.visceral_fat
	FROM sessions s
	JOIN cycles c ON c.id = s.cycle_id
	JOIN body_compositions bc ON bc.session_id = s.id
	WHERE c.patient_id = $1`

func (r *repoPG) SessionEndpoints(ctx context.Context, id uuid.UUID) (*SessionEndpoint, *SessionEndpoint, error) {
	first, err := r.scanEndpoint(r.conn(ctx).QueryRow(ctx,
		endpointQuery+` ORDER BY s.session_date ASC, s.id ASC LIMIT 1`, id))
	if err != nil {
		return nil, nil, err
	}
	last, err := r.scanEndpoint(r.conn(ctx).QueryRow(ctx,
		endpointQuery+` ORDER BY s.session_date DESC, s.id DESC LIMIT 1`, id))
	if err != nil {
		return nil, nil, err
	}
	return first, last, nil
}

func (r *repoPG) scanEndpoint(row pgx.Row) (*SessionEndpoint, error) {
	var ep SessionEndpoint
	err := row.Scan(&ep.SessionDate, &ep.Body.RegisteredAt, &ep.Body.WeightKg,
		&ep.Body.FatPercentage, &ep.Body.FatKg, &ep.Body.MuscleMassPercentage,
		&ep.Body.H2OPercentage, &ep.Body.MetabolicAge, &ep.Body.VisceralFat)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ep, nil
}
