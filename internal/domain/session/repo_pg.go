package session

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

const sessionCols = `id, cycle_id, medication_id, activator_id, dosage_mg,
	session_date, notes, created_at`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.CycleID, &s.MedicationID, &s.ActivatorID,
		&s.DosageMg, &s.SessionDate, &s.Notes, &s.CreatedAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	s.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO sessions (id, cycle_id, medication_id, activator_id, dosage_mg,
			session_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		s.ID, s.CycleID, s.MedicationID, s.ActivatorID, s.DosageMg,
		s.SessionDate, s.Notes).Scan(&s.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "session")
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	s, err := scanSession(r.conn(ctx).QueryRow(ctx,
		`SELECT `+sessionCols+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		return nil, apperr.FromPG(err, "session")
	}
	return s, nil
}

func (r *repoPG) ListByCycle(ctx context.Context, cycleID uuid.UUID) ([]*Session, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+sessionCols+` FROM sessions
		WHERE cycle_id = $1
		ORDER BY session_date ASC, id ASC`, cycleID)
	if err != nil {
		return nil, apperr.FromPG(err, "session")
	}
	defer rows.Close()

	var items []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) CountByCycle(ctx context.Context, cycleID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE cycle_id = $1`, cycleID).Scan(&count)
	if err != nil {
		return 0, apperr.FromPG(err, "session")
	}
	return count, nil
}

func (r *repoPG) Update(ctx context.Context, s *Session) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE sessions SET medication_id = $2, activator_id = $3, dosage_mg = $4,
			session_date = $5, notes = $6
		WHERE id = $1`,
		s.ID, s.MedicationID, s.ActivatorID, s.DosageMg, s.SessionDate, s.Notes)
	if err != nil {
		return apperr.FromPG(err, "session")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return apperr.FromPG(err, "session")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session")
	}
	return nil
}

const bodyCompositionCols = `id, patient_id, session_id, weight_kg, fat_percentage,
	fat_kg, muscle_mass_percentage, h2o_percentage, metabolic_age, visceral_fat, created_at`

func (r *repoPG) CreateBodyComposition(ctx context.Context, bc *BodyComposition) error {
	bc.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO body_compositions (id, patient_id, session_id, weight_kg,
			fat_percentage, fat_kg, muscle_mass_percentage, h2o_percentage,
			metabolic_age, visceral_fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		bc.ID, bc.PatientID, bc.SessionID, bc.WeightKg, bc.FatPercentage,
		bc.FatKg, bc.MuscleMassPercentage, bc.H2OPercentage,
		bc.MetabolicAge, bc.VisceralFat).Scan(&bc.CreatedAt)
	if err != nil {
		return apperr.FromPG(err, "body composition")
	}
	return nil
}

func (r *repoPG) UpdateBodyComposition(ctx context.Context, bc *BodyComposition) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE body_compositions SET weight_kg = $2, fat_percentage = $3, fat_kg = $4,
			muscle_mass_percentage = $5, h2o_percentage = $6, metabolic_age = $7,
			visceral_fat = $8
		WHERE id = $1`,
		bc.ID, bc.WeightKg, bc.FatPercentage, bc.FatKg,
		bc.MuscleMassPercentage, bc.H2OPercentage, bc.MetabolicAge, bc.VisceralFat)
	if err != nil {
		return apperr.FromPG(err, "body composition")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("body composition")
	}
	return nil
}

func (r *repoPG) GetBodyCompositionBySession(ctx context.Context, sessionID uuid.UUID) (*BodyComposition, error) {
	var bc BodyComposition
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+bodyCompositionCols+` FROM body_compositions WHERE session_id = $1`, sessionID).
		Scan(&bc.ID, &bc.PatientID, &bc.SessionID, &bc.WeightKg, &bc.FatPercentage,
			&bc.FatKg, &bc.MuscleMassPercentage, &bc.H2OPercentage,
			&bc.MetabolicAge, &bc.VisceralFat, &bc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromPG(err, "body composition")
	}
	return &bc, nil
}
