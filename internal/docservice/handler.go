package docservice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/transport"
)

const maxMultipartMemory = 32 << 20

// Handler exposes a Client over /api/v1/resource and /api/v1/method.
type Handler struct {
	*transport.BaseHandler
	Client Client
}

func NewHandler(client Client, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Client:      client,
	}
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	doctype := chi.URLParam(r, "doctype")
	query, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	records, err := h.Client.List(r.Context(), doctype, query)
	if err != nil {
		h.Logger.Error("ListDocuments: service error", "error", err, "doctype", doctype)
		h.HandleServiceError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"data": records})
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doctype, name := chi.URLParam(r, "doctype"), chi.URLParam(r, "name")
	rec, err := h.Client.Get(r.Context(), doctype, name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	doctype, name := chi.URLParam(r, "doctype"), chi.URLParam(r, "name")
	if err := h.Client.Delete(r.Context(), doctype, name); err != nil {
		h.Logger.Error("DeleteDocument: service error", "error", err, "doctype", doctype, "name", name)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"message": "ok"})
}

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.HandleServiceError(w, errors.NewValidationError("invalid multipart body", errors.ErrCodeValidationFailed))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, errors.NewValidationFieldError("file", "file is required", errors.ErrCodeValidationFailed))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(w, errors.NewValidationError("failed to read upload", errors.ErrCodeUploadFailed))
		return
	}

	isPrivate, _ := strconv.ParseBool(r.FormValue("is_private"))
	uploaded, err := h.Client.Upload(r.Context(), Upload{
		Doctype:   r.FormValue("doctype"),
		Docname:   r.FormValue("docname"),
		IsPrivate: isPrivate,
		FileName:  header.Filename,
		Content:   content,
	})
	if err != nil {
		h.Logger.Error("UploadFile: service error", "error", err, "file_name", header.Filename)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"message": uploaded})
}

func (h *Handler) InvokeAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	args := map[string]any{}
	if r.ContentLength != 0 {
		if !h.DecodeJSON(w, r, &args) {
			return
		}
	}

	result, err := h.Client.Invoke(r.Context(), action, args)
	if err != nil {
		h.Logger.Warn("InvokeAction: action failed", "error", err, "action", action)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"message": result})
}

func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	actor, err := h.Client.CurrentActor(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]any{"message": actor})
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	q := r.URL.Query()
	var query ListQuery
	if raw := q.Get("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &query.Filters); err != nil {
			return query, errors.NewValidationError("filters must be a JSON array", errors.ErrCodeInvalidFilter)
		}
	}
	if raw := q.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				query.Fields = append(query.Fields, f)
			}
		}
	}
	query.OrderBy = q.Get("order_by")
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		query.Limit = limit
	}
	return query, nil
}
