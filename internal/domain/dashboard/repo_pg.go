package dashboard

import (
	"context"
	"time"

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

func (r *repoPG) CountPatients(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&count)
	if err != nil {
		return 0, apperr.FromPG(err, "patient")
	}
	return count, nil
}

func (r *repoPG) CountSessionsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE session_date >= $1`, since).Scan(&count)
	if err != nil {
		return 0, apperr.FromPG(err, "session")
	}
	return count, nil
}

// WeightEndpoints runs the first/last-in-range reduction as one windowed
// query instead of per-patient lookups. Ties on session_date break by
// session id, ascending for the first endpoint and descending for the last.
func (r *repoPG) WeightEndpoints(ctx context.Context, w Window) ([]weightEndpoints, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		WITH ranked AS (
			SELECT c.patient_id, p.name, bc.weight_kg, s.id AS session_id,
				ROW_NUMBER() OVER (PARTITION BY c.patient_id ORDER BY s.session_date ASC,  s.id ASC)  AS rn_first,
				ROW_NUMBER() OVER (PARTITION BY c.patient_id ORDER BY s.session_date DESC, s.id DESC) AS rn_last,
				COUNT(*)     OVER (PARTITION BY c.patient_id) AS session_count
			FROM sessions s
			JOIN cycles c ON c.id = s.cycle_id
			JOIN patients p ON p.id = c.patient_id
			JOIN body_compositions bc ON bc.session_id = s.id
			WHERE s.session_date >= $1 AND s.session_date <= $2
		)
		SELECT f.patient_id, f.name,
			f.weight_kg AS first_weight, l.weight_kg AS last_weight,
			f.session_id AS first_session_id, l.session_id AS last_session_id,
			f.session_count
		FROM ranked f
		JOIN ranked l ON l.patient_id = f.patient_id AND l.rn_last = 1
		WHERE f.rn_first = 1
		ORDER BY f.name ASC`, w.From, w.To)
	if err != nil {
		return nil, apperr.FromPG(err, "session")
	}
	defer rows.Close()

	var items []weightEndpoints
	for rows.Next() {
		var we weightEndpoints
		if err := rows.Scan(&we.PatientID, &we.PatientName, &we.FirstWeightKg,
			&we.LastWeightKg, &we.FirstSessionID, &we.LastSessionID, &we.SessionCount); err != nil {
			return nil, err
		}
		items = append(items, we)
	}
	return items, rows.Err()
}

func (r *repoPG) ActivatorUsage(ctx context.Context) ([]UsageItem, error) {
	return r.usage(ctx, `
		SELECT a.name, COUNT(s.id)
		FROM activators a
		JOIN sessions s ON s.activator_id = a.id
		GROUP BY a.id, a.name
		ORDER BY COUNT(s.id) DESC`)
}

func (r *repoPG) MedicationPreference(ctx context.Context) ([]UsageItem, error) {
	return r.usage(ctx, `
		SELECT m.name, COUNT(p.id)
		FROM medications m
		JOIN patients p ON p.preferred_medication_id = m.id
		GROUP BY m.id, m.name
		ORDER BY COUNT(p.id) DESC`)
}

func (r *repoPG) usage(ctx context.Context, sql string) ([]UsageItem, error) {
	rows, err := r.conn(ctx).Query(ctx, sql)
	if err != nil {
		return nil, apperr.FromPG(err, "dashboard")
	}
	defer rows.Close()

	var items []UsageItem
	for rows.Next() {
		var u UsageItem
		if err := rows.Scan(&u.Name, &u.Count); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

func (r *repoPG) GenderCounts(ctx context.Context) (map[string]int, error) {
	return r.counts(ctx, `SELECT gender, COUNT(*) FROM patients GROUP BY gender`)
}

func (r *repoPG) LocationCounts(ctx context.Context) (map[string]int, error) {
	return r.counts(ctx, `SELECT treatment_location, COUNT(*) FROM patients GROUP BY treatment_location`)
}

func (r *repoPG) counts(ctx context.Context, sql string) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, sql)
	if err != nil {
		return nil, apperr.FromPG(err, "dashboard")
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		out[key] = count
	}
	return out, rows.Err()
}

func (r *repoPG) BirthDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT birth_date FROM patients`)
	if err != nil {
		return nil, apperr.FromPG(err, "patient")
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *repoPG) DosageGroups(ctx context.Context, w Window) ([]DosageGroup, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.name, s.dosage_mg, COUNT(DISTINCT c.patient_id)
		FROM sessions s
		JOIN cycles c ON c.id = s.cycle_id
		JOIN medications m ON m.id = s.medication_id
		WHERE s.dosage_mg IS NOT NULL
			AND s.session_date >= $1 AND s.session_date <= $2
		GROUP BY m.id, m.name, s.dosage_mg
		ORDER BY m.name ASC, s.dosage_mg ASC`, w.From, w.To)
	if err != nil {
		return nil, apperr.FromPG(err, "session")
	}
	defer rows.Close()

	var items []DosageGroup
	for rows.Next() {
		var g DosageGroup
		if err := rows.Scan(&g.MedicationName, &g.DosageMg, &g.PatientCount); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
