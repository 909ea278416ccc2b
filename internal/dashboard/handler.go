package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

type ServiceAPI interface {
	Stats(ctx context.Context, employee string) (Stats, error)
	Recent(ctx context.Context, employee string, limit int) ([]RecentTimesheet, error)
}

type Response struct {
	Stats  Stats             `json:"stats"`
	Recent []RecentTimesheet `json:"recent_timesheets"`
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(r.Context(), actor.Employee)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	recent, err := h.Service.Recent(r.Context(), actor.Employee, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, Response{Stats: stats, Recent: recent})
}
