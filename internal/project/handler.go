package project

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, includeClosed bool) ([]*Project, error)
	Get(ctx context.Context, name string) (*Project, error)
	Create(ctx context.Context, actor *coreUser.Actor, dto CreateProjectDTO) (*Project, error)
	SetApprovers(ctx context.Context, actor *coreUser.Actor, name string, dto SetApproversDTO) (*Project, error)
	ListTasks(ctx context.Context, name string) ([]*Task, error)
	CreateTask(ctx context.Context, actor *coreUser.Actor, name string, dto CreateTaskDTO) (*Task, error)
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

func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	includeClosed, _ := strconv.ParseBool(r.URL.Query().Get("include_closed"))
	projects, err := h.Service.List(r.Context(), includeClosed)
	if err != nil {
		h.Logger.Error("GetProjects: failed to get projects", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []*Project{}
	}
	h.WriteJSON(w, http.StatusOK, ProjectsResponse{Projects: projects})
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	var dto CreateProjectDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	p, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) SetApprovers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	var dto SetApproversDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	p, err := h.Service.SetApprovers(r.Context(), actor, chi.URLParam(r, "name"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.ListTasks(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	h.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.Actor(w, r)
	if !ok {
		return
	}
	var dto CreateTaskDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	task, err := h.Service.CreateTask(r.Context(), actor, chi.URLParam(r, "name"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, task)
}
