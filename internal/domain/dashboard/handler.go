package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rakshanam/clinic/internal/domain/patient"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/follow-ups", h.FollowUps)
	api.GET("/recent-visits", h.RecentVisits)
	api.GET("/charts", h.Charts)
	api.GET("/patients/:id/chart", h.PatientChart)
	api.GET("/patients/:id/watch", h.WatchPatient)
}

func (h *Handler) FollowUps(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.UpcomingFollowUps(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) RecentVisits(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.RecentVisits(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Charts(c echo.Context) error {
	items, err := h.svc.ListPatientsWithVisits(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) PatientChart(c echo.Context) error {
	chart, err := h.svc.PatientChart(c.Request().Context(), c.Param("id"))
	if err != nil {
		if patient.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chart)
}

// WatchPatient streams patient record changes as server-sent events. A
// deleted record is sent as a null payload and the stream stays open until
// the client disconnects.
func (h *Handler) WatchPatient(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	// Slow consumers drop events rather than block store writes.
	events := make(chan *patient.Patient, 8)
	cancel := h.svc.WatchPatient(c.Param("id"), func(p *patient.Patient) {
		select {
		case events <- p:
		default:
		}
	})
	defer cancel()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-events:
			payload := []byte("null")
			if p != nil {
				var err error
				if payload, err = json.Marshal(p); err != nil {
					continue
				}
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
