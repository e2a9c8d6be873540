package cycle

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/cycles", h.Create)
	g.GET("/cycles", h.List)
	g.GET("/cycles/:id", h.Get)
	g.PUT("/cycles/:id", h.Update)
	g.DELETE("/cycles/:id", h.Delete)

	// Nested patient routes for cycle access.
	g.GET("/patients/:id/cycles", h.ListForPatient)
	g.POST("/patients/:id/cycles", h.CreateForPatient)
}

func (h *Handler) Create(c echo.Context) error {
	var cy Cycle
	if err := c.Bind(&cy); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &cy); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cy)
}

func (h *Handler) CreateForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var cy Cycle
	if err := c.Bind(&cy); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cy.PatientID = patientID
	if err := h.svc.Create(c.Request().Context(), &cy); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cy)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	cy, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cy)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Cycle{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListForPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*Cycle{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cy, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cy)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
