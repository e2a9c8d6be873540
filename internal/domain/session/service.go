package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/pilares/clinic-api/internal/domain/activator"
	"github.com/pilares/clinic-api/internal/domain/cycle"
	"github.com/pilares/clinic-api/internal/domain/medication"
	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/internal/platform/db"
)

type Service struct {
	sessions    Repository
	cycles      cycle.Repository
	medications medication.Repository
	activators  activator.Repository
	tx          db.TxRunner
}

func NewService(
	sessions Repository,
	cycles cycle.Repository,
	medications medication.Repository,
	activators activator.Repository,
	tx db.TxRunner,
) *Service {
	return &Service{
		sessions:    sessions,
		cycles:      cycles,
		medications: medications,
		activators:  activators,
		tx:          tx,
	}
}

// Create adds a session to a cycle. The session-count check and both inserts
// run inside one transaction holding a row lock on the cycle, so two
// concurrent creations cannot jointly exceed max_sessions.
func (s *Service) Create(ctx context.Context, cycleID uuid.UUID, in CreateInput) (*Session, error) {
	if _, err := s.cycles.GetByID(ctx, cycleID); err != nil {
		return nil, err
	}
	if in.CycleID != cycleID {
		return nil, apperr.Conflict("cycle id in body does not match url parameter")
	}
	if _, err := s.medications.GetByID(ctx, in.MedicationID); err != nil {
		return nil, err
	}
	if in.ActivatorID != nil {
		if _, err := s.activators.GetByID(ctx, *in.ActivatorID); err != nil {
			return nil, err
		}
	}
	if in.BodyComposition == nil {
		return nil, apperr.Validation("body_composition is required")
	}
	if in.SessionDate.IsZero() {
		return nil, apperr.Validation("session_date is required")
	}

	sess := Session{
		CycleID:      cycleID,
		MedicationID: in.MedicationID,
		ActivatorID:  in.ActivatorID,
		DosageMg:     in.DosageMg,
		SessionDate:  in.SessionDate,
		Notes:        in.Notes,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		locked, err := s.cycles.GetForUpdate(ctx, cycleID)
		if err != nil {
			return err
		}
		count, err := s.sessions.CountByCycle(ctx, cycleID)
		if err != nil {
			return err
		}
		if count >= locked.MaxSessions {
			return apperr.Validationf("cycle has reached maximum number of sessions (%d)", locked.MaxSessions)
		}
		if err := s.sessions.Create(ctx, &sess); err != nil {
			return err
		}

		bc := bodyCompositionFromInput(*in.BodyComposition)
		bc.PatientID = locked.PatientID
		bc.SessionID = sess.ID
		return s.sessions.CreateBodyComposition(ctx, &bc)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sess.ID)
}

// Get returns a session with its medication, activator and body composition
// populated.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachRelations(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) attachRelations(ctx context.Context, sess *Session) error {
	med, err := s.medications.GetByID(ctx, sess.MedicationID)
	if err != nil {
		return err
	}
	sess.Medication = med

	if sess.ActivatorID != nil {
		act, err := s.activators.GetByID(ctx, *sess.ActivatorID)
		if err != nil {
			return err
		}
		sess.Activator = act
	}

	bc, err := s.sessions.GetBodyCompositionBySession(ctx, sess.ID)
	if err != nil {
		return err
	}
	sess.BodyComposition = bc
	return nil
}

func (s *Service) ListByCycle(ctx context.Context, cycleID uuid.UUID) ([]*Session, error) {
	if _, err := s.cycles.GetByID(ctx, cycleID); err != nil {
		return nil, err
	}
	items, err := s.sessions.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	for _, sess := range items {
		if err := s.attachRelations(ctx, sess); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Update applies a partial patch. A body-composition patch creates the record
// when absent and overwrites all measurement fields when present.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.MedicationIDSet {
		if in.MedicationID == nil {
			return nil, apperr.Validation("medication id is required")
		}
		if _, err := s.medications.GetByID(ctx, *in.MedicationID); err != nil {
			return nil, err
		}
		sess.MedicationID = *in.MedicationID
	}
	if in.ActivatorIDSet {
		if in.ActivatorID != nil {
			if _, err := s.activators.GetByID(ctx, *in.ActivatorID); err != nil {
				return nil, err
			}
		}
		sess.ActivatorID = in.ActivatorID
	}
	if in.SessionDateSet && in.SessionDate != nil {
		sess.SessionDate = *in.SessionDate
	}
	if in.NotesSet {
		sess.Notes = in.Notes
	}
	if in.DosageMgSet {
		sess.DosageMg = in.DosageMg
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.Update(ctx, sess); err != nil {
			return err
		}
		if in.BodyComposition == nil {
			return nil
		}

		existing, err := s.sessions.GetBodyCompositionBySession(ctx, sess.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			owner, err := s.cycles.GetByID(ctx, sess.CycleID)
			if err != nil {
				return err
			}
			bc := bodyCompositionFromInput(*in.BodyComposition)
			bc.PatientID = owner.PatientID
			bc.SessionID = sess.ID
			return s.sessions.CreateBodyComposition(ctx, &bc)
		}

		updated := bodyCompositionFromInput(*in.BodyComposition)
		updated.ID = existing.ID
		updated.PatientID = existing.PatientID
		updated.SessionID = existing.SessionID
		updated.CreatedAt = existing.CreatedAt
		return s.sessions.UpdateBodyComposition(ctx, &updated)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, sess.ID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Delete(ctx, id)
}

func bodyCompositionFromInput(in BodyCompositionInput) BodyComposition {
	return BodyComposition{
		WeightKg:             in.WeightKg,
		FatPercentage:        in.FatPercentage,
		FatKg:                in.FatKg,
		MuscleMassPercentage: in.MuscleMassPercentage,
		H2OPercentage:        in.H2OPercentage,
		MetabolicAge:         in.MetabolicAge,
		VisceralFat:          in.VisceralFat,
	}
}
