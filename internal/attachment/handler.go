package attachment

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

const maxMultipartMemory = 32 << 20

type UploadResponse struct {
	Notices     []Notice     `json:"notices"`
	Attachments []Attachment `json:"attachments"`
}

type Handler struct {
	*transport.BaseHandler
	Client  docservice.Client
	Doctype string
}

func NewHandler(client docservice.Client, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Client:      client,
		Doctype:     docservice.DoctypeTimesheet,
	}
}

// manager resolves the owning record first so unknown or unreadable
// timesheets answer 404/403 instead of an empty list.
func (h *Handler) manager(w http.ResponseWriter, r *http.Request) (*Manager, bool) {
	name := chi.URLParam(r, "name")
	if _, err := h.Client.Get(r.Context(), h.Doctype, name); err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}
	return NewManager(h.Client, h.Doctype, name, h.Logger), true
}

func (h *Handler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	items, err := m.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.HandleServiceError(w, errors.NewValidationError("invalid multipart body", errors.ErrCodeValidationFailed))
		return
	}
	files, err := FilesFromMultipart(r.MultipartForm)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if private, err := strconv.ParseBool(r.FormValue("is_private")); err == nil {
		m.SetPrivate(private)
	}

	notices := m.Upload(r.Context(), files)
	h.WriteJSON(w, http.StatusOK, UploadResponse{Notices: notices, Attachments: nonNil(m.Items())})
}

func (h *Handler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	m, ok := h.manager(w, r)
	if !ok {
		return
	}
	fileID := chi.URLParam(r, "file")
	owned, err := m.Owns(r.Context(), fileID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !owned {
		h.HandleServiceError(w, errors.NewNotFoundError("Attachment not found", errors.ErrCodeDocumentNotFound))
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	removed, err := m.Remove(r.Context(), fileID, func(string) bool { return confirmed })
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !removed {
		h.HandleServiceError(w, errors.NewValidationError(RemovePrompt, errors.ErrCodeConfirmRequired))
		return
	}
	h.WriteJSON(w, http.StatusOK, nonNil(m.Items()))
}

func nonNil(items []Attachment) []Attachment {
	if items == nil {
		return []Attachment{}
	}
	return items
}
