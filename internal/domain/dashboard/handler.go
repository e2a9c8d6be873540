package dashboard

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pilares/clinic-api/internal/platform/apperr"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard/stats", h.Stats)
	g.GET("/dashboard/weight-loss-ranking", h.WeightLossRanking)
	g.GET("/dashboard/weight-gain-ranking", h.WeightGainRanking)
	g.GET("/dashboard/dosage-report", h.DosageReport)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) WeightLossRanking(c echo.Context) error {
	w, err := windowFromQuery(c)
	if err != nil {
		return err
	}
	entries, err := h.svc.WeightLossRanking(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RankingResponse[WeightLossEntry]{
		StartDate: w.From.Format(dateLayout),
		EndDate:   w.To.Format(dateLayout),
		Items:     entries,
	})
}

func (h *Handler) WeightGainRanking(c echo.Context) error {
	w, err := windowFromQuery(c)
	if err != nil {
		return err
	}
	entries, err := h.svc.WeightGainRanking(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RankingResponse[WeightGainEntry]{
		StartDate: w.From.Format(dateLayout),
		EndDate:   w.To.Format(dateLayout),
		Items:     entries,
	})
}

func (h *Handler) DosageReport(c echo.Context) error {
	w, err := windowFromQuery(c)
	if err != nil {
		return err
	}
	groups, err := h.svc.DosageReport(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// windowFromQuery reads optional start_date/end_date query parameters and
// widens them to full-day boundaries. Missing parameters fall back to the
// last 30 days.
func windowFromQuery(c echo.Context) (Window, error) {
	w := DefaultWindow(time.Now().UTC())

	if raw := c.QueryParam("start_date"); raw != "" {
		start, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return Window{}, apperr.Validation("start_date must be formatted as YYYY-MM-DD")
		}
		w.From = start
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		end, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return Window{}, apperr.Validation("end_date must be formatted as YYYY-MM-DD")
		}
		w.To = end.Add(24*time.Hour - time.Microsecond)
	}
	if w.To.Before(w.From) {
		return Window{}, apperr.Validation("end_date must not be before start_date")
	}
	return w, nil
}
