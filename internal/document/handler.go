package document

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
)

type Handler struct {
	patients patient.Repository
	visits   prescription.Repository
	renderer *HTMLRenderer
	cfg      Config
}

func NewHandler(patients patient.Repository, visits prescription.Repository, renderer *HTMLRenderer, cfg Config) *Handler {
	return &Handler{patients: patients, visits: visits, renderer: renderer, cfg: cfg}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/prescriptions/:id/document", h.Document)
	api.GET("/prescriptions/:id/print", h.Print)
}

func (h *Handler) assemble(c echo.Context) (*Document, error) {
	ctx := c.Request().Context()
	rx, err := h.visits.GetByID(ctx, c.Param("id"))
	if err != nil {
		if prescription.IsNotFound(err) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "prescription not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	p, err := h.patients.GetByID(ctx, rx.PatientID)
	if err != nil {
		if patient.IsNotFound(err) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	cfg := h.cfg
	if loc := c.QueryParam("locale"); loc != "" {
		cfg.Locale = loc
	}
	return Assemble(p, rx, cfg), nil
}

// Document returns the assembled layout as JSON.
func (h *Handler) Document(c echo.Context) error {
	doc, err := h.assemble(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Print returns the layout rendered as a printable HTML page.
func (h *Handler) Print(c echo.Context) error {
	doc, err := h.assemble(c)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.renderer.Render(c.Response(), doc)
}
