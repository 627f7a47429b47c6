package catalog

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog/medicines", h.ListMedicines)
	api.POST("/catalog/medicines", h.CreateMedicine)
	api.PUT("/catalog/medicines/:id", h.UpdateMedicine)
	api.DELETE("/catalog/medicines/:id", h.DeleteMedicine)

	api.GET("/catalog/diagnoses", h.ListDiagnoses)
	api.POST("/catalog/diagnoses", h.CreateDiagnosis)
	api.PUT("/catalog/diagnoses/:id", h.UpdateDiagnosis)
	api.DELETE("/catalog/diagnoses/:id", h.DeleteDiagnosis)

	api.GET("/catalog/chief-complaints", h.ListComplaints)
	api.POST("/catalog/chief-complaints", h.CreateComplaint)
	api.PUT("/catalog/chief-complaints/:id", h.UpdateComplaint)
	api.DELETE("/catalog/chief-complaints/:id", h.DeleteComplaint)

	api.GET("/catalog/panchkarma-processes", h.ListPanchkarma)
	api.POST("/catalog/panchkarma-processes", h.CreatePanchkarma)
	api.PUT("/catalog/panchkarma-processes/:id", h.UpdatePanchkarma)
	api.DELETE("/catalog/panchkarma-processes/:id", h.DeletePanchkarma)
}

func list[T any](c echo.Context, f func(context.Context) ([]*T, error)) error {
	items, err := f(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func create[T any](c echo.Context, f func(context.Context, *T) (string, error)) error {
	var v T
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := f(c.Request().Context(), &v)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func replace[T any](c echo.Context, f func(context.Context, string, *T) error) error {
	var v T
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := f(c.Request().Context(), c.Param("id"), &v); err != nil {
		if IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func remove(c echo.Context, f func(context.Context, string) error) error {
	if err := f(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	return list(c, h.svc.repo.Medicines.ListAll)
}

func (h *Handler) CreateMedicine(c echo.Context) error {
	return create(c, h.svc.CreateMedicine)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	return replace(c, h.svc.UpdateMedicine)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	return remove(c, h.svc.repo.Medicines.Delete)
}

func (h *Handler) ListDiagnoses(c echo.Context) error {
	return list(c, h.svc.repo.Diagnoses.ListAll)
}

func (h *Handler) CreateDiagnosis(c echo.Context) error {
	return create(c, h.svc.CreateDiagnosis)
}

func (h *Handler) UpdateDiagnosis(c echo.Context) error {
	return replace(c, h.svc.UpdateDiagnosis)
}

func (h *Handler) DeleteDiagnosis(c echo.Context) error {
	return remove(c, h.svc.repo.Diagnoses.Delete)
}

func (h *Handler) ListComplaints(c echo.Context) error {
	return list(c, h.svc.repo.Complaints.ListAll)
}

func (h *Handler) CreateComplaint(c echo.Context) error {
	return create(c, h.svc.CreateComplaint)
}

func (h *Handler) UpdateComplaint(c echo.Context) error {
	return replace(c, h.svc.UpdateComplaint)
}

func (h *Handler) DeleteComplaint(c echo.Context) error {
	return remove(c, h.svc.repo.Complaints.Delete)
}

func (h *Handler) ListPanchkarma(c echo.Context) error {
	return list(c, h.svc.repo.Panchkarma.ListAll)
}

func (h *Handler) CreatePanchkarma(c echo.Context) error {
	return create(c, h.svc.CreatePanchkarma)
}

func (h *Handler) UpdatePanchkarma(c echo.Context) error {
	return replace(c, h.svc.UpdatePanchkarma)
}

func (h *Handler) DeletePanchkarma(c echo.Context) error {
	return remove(c, h.svc.repo.Panchkarma.Delete)
}
