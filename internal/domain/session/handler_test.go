package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

func newTestHandler(t *testing.T, maxSessions int) (*Handler, *fixture) {
	t.Helper()
	f := newFixture(t, maxSessions)
	return NewHandler(f.svc), f
}

func postSession(t *testing.T, h *Handler, f *fixture, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cycles/"+f.cycleID.String()+"/sessions",
		strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.cycleID.String())
	return rec, h.Create(c)
}

func sessionBody(f *fixture, date string) string {
	return fmt.Sprintf(`{
		"cycle_id": %q,
		"session_date": %q,
		"medication_id": %q,
		"body_composition": {
			"weight_kg": 85.2,
			"fat_percentage": 28.5,
			"fat_kg": 24.3,
			"muscle_mass_percentage": 32.1,
			"h2o_percentage": 55.0,
			"metabolic_age": 42,
			"visceral_fat": 9
		}
	}`, f.cycleID, date, f.medicationID)
}

func TestHandlerCreateSession(t *testing.T) {
	h, f := newTestHandler(t, 8)

	rec, err := postSession(t, h, f, sessionBody(f, "2024-01-10T10:00:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp Session
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.BodyComposition == nil {
		t.Error("expected body composition in response")
	}
	if resp.BodyComposition != nil && resp.BodyComposition.PatientID != f.patientID {
		t.Error("expected patient id copied from cycle")
	}
}

func TestHandlerCreateSessionNinthFails(t *testing.T) {
	h, f := newTestHandler(t, 8)

	base := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		rec, err := postSession(t, h, f, sessionBody(f, base.AddDate(0, 0, i*7).Format(time.RFC3339)))
		if err != nil {
			t.Fatalf("session %d: unexpected error: %v", i+1, err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("session %d: expected 201, got %d", i+1, rec.Code)
		}
	}

	_, err := postSession(t, h, f, sessionBody(f, "2024-03-10T10:00:00Z"))
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error on 9th session, got %v", err)
	}
	if !strings.Contains(err.Error(), "maximum number of sessions") {
		t.Errorf("expected max-sessions message, got %q", err.Error())
	}
}

func TestHandlerUpdateSessionNullMedication(t *testing.T) {
	h, f := newTestHandler(t, 8)

	rec, err := postSession(t, h, f, sessionBody(f, "2024-01-10T10:00:00Z"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var created Session
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/sessions/"+created.ID.String(),
		strings.NewReader(`{"medication_id": null}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.ID.String())

	err = h.Update(c)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("expected validation error for null medication, got %v", err)
	}
}

func TestHandlerCreateSessionInvalidCycleID(t *testing.T) {
	h, _ := newTestHandler(t, 8)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/cycles/not-a-uuid/sessions",
		strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Create(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid uuid, got %v", err)
	}
}
