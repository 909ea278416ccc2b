package attachment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	errors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

const (
	uploadConcurrency = 4
	RemovePrompt      = "Are you sure you want to remove this attachment?"
)

var listFields = []string{"name", "file_name", "file_url", "file_size"}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message naming the file it concerns.
type Notice struct {
	Level    NoticeLevel `json:"level"`
	FileName string      `json:"file_name"`
	Message  string      `json:"message"`
}

// File is a file picked or dropped by the user.
type File struct {
	Name    string
	Content []byte
}

// Confirm asks the user a yes/no question.
type Confirm func(prompt string) bool

// Manager tracks the attachment list of one record. A list response is only
// applied when no later refresh has been applied already.
type Manager struct {
	client  docservice.Client
	doctype string
	docname string
	private bool
	logger  *slog.Logger

	mu        sync.Mutex
	requested uint64
	applied   uint64
	items     []Attachment
}

func NewManager(client docservice.Client, doctype, docname string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:  client,
		doctype: doctype,
		docname: docname,
		logger:  logger,
	}
}

// SetPrivate makes subsequent uploads private.
func (m *Manager) SetPrivate(private bool) {
	m.private = private
}

// Items returns the last applied list.
func (m *Manager) Items() []Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Attachment(nil), m.items...)
}

// Owns reports whether fileID is attached to the manager's record. It asks
// the document service instead of the last list, which is capped.
func (m *Manager) Owns(ctx context.Context, fileID string) (bool, error) {
	if m.docname == "" || fileID == "" {
		return false, nil
	}
	rec, err := m.client.Get(ctx, docservice.DoctypeFile, fileID)
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.Type == errors.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return rec.String("attached_to_doctype") == m.doctype && rec.String("attached_to_name") == m.docname, nil
}

// List fetches the files attached to the record and applies the result.
func (m *Manager) List(ctx context.Context) ([]Attachment, error) {
	if m.docname == "" {
		return nil, nil
	}

	m.mu.Lock()
	m.requested++
	generation := m.requested
	m.mu.Unlock()

	records, err := m.client.List(ctx, docservice.DoctypeFile, docservice.ListQuery{
		Filters: []docservice.Filter{
			docservice.Eq("attached_to_doctype", m.doctype),
			docservice.Eq("attached_to_name", m.docname),
		},
		Fields: listFields,
	})
	if err != nil {
		m.logger.Error("failed to list attachments", "error", err, "doctype", m.doctype, "docname", m.docname)
		return nil, err
	}

	items := make([]Attachment, 0, len(records))
	for _, rec := range records {
		items = append(items, newAttachment(rec.String("name"), rec.String("file_name"), rec.String("file_url"), rec.Int("file_size")))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if generation > m.applied {
		m.applied = generation
		m.items = items
	} else {
		m.logger.Debug("discarding stale attachment list", "generation", generation, "applied", m.applied)
	}
	return append([]Attachment(nil), m.items...), nil
}

// Upload sends every file independently; a failure never affects the
// others. Notices come back in the order of files.
func (m *Manager) Upload(ctx context.Context, files []File) []Notice {
	notices := make([]Notice, len(files))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			notices[i] = m.uploadOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()
	return notices
}

func (m *Manager) uploadOne(ctx context.Context, f File) Notice {
	uploaded, err := m.client.Upload(ctx, docservice.Upload{
		Doctype:   m.doctype,
		Docname:   m.docname,
		IsPrivate: m.private,
		FileName:  f.Name,
		Content:   f.Content,
	})
	if err != nil {
		m.logger.Warn("attachment upload failed", "error", err, "file_name", f.Name, "docname", m.docname)
		return Notice{Level: NoticeError, FileName: f.Name, Message: fmt.Sprintf("Failed to upload %s", f.Name)}
	}

	m.logger.Info("attachment uploaded", "file", uploaded.Name, "file_name", f.Name, "docname", m.docname)
	if _, err := m.List(ctx); err != nil {
		m.logger.Warn("attachment list refresh failed", "error", err, "docname", m.docname)
	}
	return Notice{Level: NoticeSuccess, FileName: f.Name, Message: fmt.Sprintf("File %s uploaded", f.Name)}
}

// Remove deletes a file once confirm agrees, then refreshes the list. The list
// is untouched when the user declines or the delete fails.
func (m *Manager) Remove(ctx context.Context, fileID string, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm(RemovePrompt) {
		return false, nil
	}
	if err := m.client.Delete(ctx, docservice.DoctypeFile, fileID); err != nil {
		m.logger.Warn("attachment removal failed", "error", err, "file", fileID, "docname", m.docname)
		return false, err
	}
	if _, err := m.List(ctx); err != nil {
		m.logger.Warn("attachment list refresh failed", "error", err, "docname", m.docname)
	}
	return true, nil
}

// FilesFromMultipart collects every uploaded part regardless of field name,
// so the picker's "file" field and a drop zone's "files" field both work.
func FilesFromMultipart(form *multipart.Form) ([]File, error) {
	if form == nil || len(form.File) == 0 {
		return nil, errors.NewValidationError("no files in request", errors.ErrCodeNoFiles)
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var files []File
	for _, field := range fields {
		for _, header := range form.File[field] {
			content, err := readPart(header)
			if err != nil {
				return nil, errors.NewValidationError(fmt.Sprintf("failed to read %s", header.Filename), errors.ErrCodeUploadFailed)
			}
			files = append(files, File{Name: header.Filename, Content: content})
		}
	}
	if len(files) == 0 {
		return nil, errors.NewValidationError("no files in request", errors.ErrCodeNoFiles)
	}
	return files, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
