package approval

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

type ServiceAPI interface {
	View(ctx context.Context, actor *coreUser.Actor, name string) (*ApprovalView, error)
	Decide(ctx context.Context, actor *coreUser.Actor, name string, dto DecisionDTO) (*timesheet.Timesheet, error)
	BulkApprove(ctx context.Context, actor *coreUser.Actor, dto BulkApproveDTO) (*BulkResult, error)
	BulkReject(ctx context.Context, actor *coreUser.Actor, dto BulkRejectDTO) (*BulkResult, error)
	List(ctx context.Context, actor *coreUser.Actor, status string, limit, offset int) ([]*Approval, error)
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

func (h *Handler) GetApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	view, err := h.Service.View(r.Context(), actor, name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) DecideApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var dto DecisionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	name := chi.URLParam(r, "name")
	ts, err := h.Service.Decide(r.Context(), actor, name, dto)
	if err != nil {
		h.Logger.Warn("DecideApproval: service error", "error", err, "timesheet", name, "actor", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	message := "Approved successfully"
	if dto.Action == ActionReject {
		message = "Rejected successfully"
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"message": message, "timesheet": ts})
}

func (h *Handler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	approvals, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("approval_status"), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if approvals == nil {
		approvals = []*Approval{}
	}
	h.WriteJSON(w, http.StatusOK, approvals)
}

func (h *Handler) BulkApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var dto BulkApproveDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.BulkApprove(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) BulkReject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}

	var dto BulkRejectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.BulkReject(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
