package notification

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

var ErrToDoNotFound = errors.NewNotFoundError("ToDo not found", errors.ErrCodeDocumentNotFound)

type Handler struct {
	*transport.BaseHandler
	Repo Repository
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Repo:        repo,
	}
}

// ListToDos returns the caller's ToDos, open ones by default.
func (h *Handler) ListToDos(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		status = StatusOpen
	}
	limit, offset := h.Pagination(r)

	todos, err := h.Repo.ListByOwner(r.Context(), actor.ID, status, limit, offset)
	if err != nil {
		h.Logger.Error("ListToDos: failed to list todos", "error", err, "owner", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	if todos == nil {
		todos = []*ToDo{}
	}
	h.WriteJSON(w, http.StatusOK, todos)
}

func (h *Handler) CloseToDo(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	if err := h.Repo.Close(r.Context(), chi.URLParam(r, "name"), actor.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": StatusClosed})
}
