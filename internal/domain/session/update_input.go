package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UpdateInput is a partial session patch. Each Set flag records whether the
// key was present in the request body, so an explicit null can be told apart
// from an omitted field.
type UpdateInput struct {
	SessionDate    *time.Time
	SessionDateSet bool

	Notes    *string
	NotesSet bool

	MedicationID    *uuid.UUID
	MedicationIDSet bool

	ActivatorID    *uuid.UUID
	ActivatorIDSet bool

	DosageMg    *float64
	DosageMgSet bool

	BodyComposition *BodyCompositionInput
}

func (in *UpdateInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["session_date"]; ok {
		in.SessionDateSet = true
		if err := json.Unmarshal(v, &in.SessionDate); err != nil {
			return err
		}
	}
	if v, ok := raw["notes"]; ok {
		in.NotesSet = true
		if err := json.Unmarshal(v, &in.Notes); err != nil {
			return err
		}
	}
	if v, ok := raw["medication_id"]; ok {
		in.MedicationIDSet = true
		if err := json.Unmarshal(v, &in.MedicationID); err != nil {
			return err
		}
	}
	if v, ok := raw["activator_id"]; ok {
		in.ActivatorIDSet = true
		if err := json.Unmarshal(v, &in.ActivatorID); err != nil {
			return err
		}
	}
	if v, ok := raw["dosage_mg"]; ok {
		in.DosageMgSet = true
		if err := json.Unmarshal(v, &in.DosageMg); err != nil {
			return err
		}
	}
	if v, ok := raw["body_composition"]; ok {
		if err := json.Unmarshal(v, &in.BodyComposition); err != nil {
			return err
		}
	}
	return nil
}
