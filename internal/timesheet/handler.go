package timesheet

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

type ServiceAPI interface {
	Check(entries []Entry) ValidationView
	Create(ctx context.Context, actor *coreUser.Actor, dto SaveTimesheetDTO) (*SaveResult, error)
	Update(ctx context.Context, actor *coreUser.Actor, name string, dto SaveTimesheetDTO) (*SaveResult, error)
	Submit(ctx context.Context, actor *coreUser.Actor, name string) (*Timesheet, error)
	Get(ctx context.Context, actor *coreUser.Actor, name string) (*Timesheet, error)
	List(ctx context.Context, actor *coreUser.Actor, limit, offset int) ([]*Timesheet, error)
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

func (h *Handler) ValidateTimesheet(w http.ResponseWriter, r *http.Request) {
	var dto ValidateTimesheetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Check(dto.TimeLogs))
}

func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var dto SaveTimesheetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.Logger.Error("CreateTimesheet: service error", "error", err, "actor", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var dto SaveTimesheetDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	name := chi.URLParam(r, "name")
	result, err := h.Service.Update(r.Context(), actor, name, dto)
	if err != nil {
		h.Logger.Error("UpdateTimesheet: service error", "error", err, "timesheet", name, "actor", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) SubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	ts, err := h.Service.Submit(r.Context(), actor, name)
	if err != nil {
		h.Logger.Error("SubmitTimesheet: service error", "error", err, "timesheet", name, "actor", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	ts, err := h.Service.Get(r.Context(), actor, name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ts)
}

func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	timesheets, err := h.Service.List(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timesheets": timesheets,
		"limit":      limit,
		"offset":     offset,
	})
}
