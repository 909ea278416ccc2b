package docservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	errors "github.com/frahmantamala/custom-timesheet/internal"
)

// Store is the document persistence used by Local.
type Store interface {
	Find(ctx context.Context, doctype string, query ListQuery) ([]Record, error)
	Get(ctx context.Context, doctype, name string) (Record, error)
	Insert(ctx context.Context, doctype string, record Record) error
	Delete(ctx context.Context, doctype, name string) error
}

// BlobStore keeps uploaded file contents.
type BlobStore interface {
	Save(ctx context.Context, key string, content []byte, private bool) (string, error)
	Remove(ctx context.Context, url string) error
}

// ReadGuard decides whether the actor in ctx may see a record.
type ReadGuard func(ctx context.Context, record Record) bool

// DeleteGuard decides whether the actor in ctx may delete a record it can
// already read. A nil error allows the delete.
type DeleteGuard func(ctx context.Context, record Record) error

// Local serves the document service in process, for HTTP handlers and the
// server-side components.
type Local struct {
	store          Store
	blobs          BlobStore
	actions        *Actions
	guards         map[string]ReadGuard
	deleteGuards   map[string]DeleteGuard
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewLocal(store Store, blobs BlobStore, actions *Actions, logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	if actions == nil {
		actions = NewActions()
	}
	return &Local{
		store:        store,
		blobs:        blobs,
		actions:      actions,
		guards:       make(map[string]ReadGuard),
		deleteGuards: make(map[string]DeleteGuard),
		logger:       logger,
	}
}

// Guard installs a read guard for a doctype. Files attached to a guarded
// doctype inherit the guard of their parent.
func (l *Local) Guard(doctype string, guard ReadGuard) {
	l.guards[doctype] = guard
}

// GuardDelete installs a delete policy for a doctype. Without one, Files may
// be deleted by anyone who can read them and every other doctype needs a
// privileged actor.
func (l *Local) GuardDelete(doctype string, guard DeleteGuard) {
	l.deleteGuards[doctype] = guard
}

func (l *Local) SetMaxUploadBytes(n int64) {
	l.maxUploadBytes = n
}

func (l *Local) Actions() *Actions {
	return l.actions
}

func (l *Local) CurrentActor(ctx context.Context) (string, error) {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok || actor.ID == "" {
		return "", errors.NewUnauthorizedError("No authenticated actor", errors.ErrCodeUnauthorizedActor)
	}
	return actor.ID, nil
}

func (l *Local) List(ctx context.Context, doctype string, query ListQuery) ([]Record, error) {
	records, err := l.store.Find(ctx, doctype, query)
	if err != nil {
		return nil, err
	}

	parents := make(map[string]bool)
	visible := records[:0]
	for _, rec := range records {
		if l.canRead(ctx, doctype, rec, parents) {
			visible = append(visible, rec)
		}
	}
	return visible, nil
}

func (l *Local) Get(ctx context.Context, doctype, name string) (Record, error) {
	rec, err := l.store.Get(ctx, doctype, name)
	if err != nil {
		return nil, err
	}
	if !l.canRead(ctx, doctype, rec, nil) {
		return nil, errors.NewForbiddenError(fmt.Sprintf("Not permitted to read %s %s", doctype, name), errors.ErrCodeUnauthorizedActor)
	}
	return rec, nil
}

func (l *Local) Delete(ctx context.Context, doctype, name string) error {
	rec, err := l.Get(ctx, doctype, name)
	if err != nil {
		return err
	}
	if err := l.canDelete(ctx, doctype, rec); err != nil {
		l.logger.Warn("delete refused", "doctype", doctype, "name", name, "error", err)
		return err
	}
	if err := l.store.Delete(ctx, doctype, name); err != nil {
		return err
	}
	if doctype == DoctypeFile && l.blobs != nil {
		if err := l.blobs.Remove(ctx, rec.String("file_url")); err != nil {
			l.logger.Error("failed to remove file contents", "error", err, "file", name)
		}
	}
	l.logger.Info("document deleted", "doctype", doctype, "name", name)
	return nil
}

func (l *Local) Upload(ctx context.Context, upload Upload) (*UploadedFile, error) {
	actor, err := l.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	fileName := cleanFileName(upload.FileName)
	if upload.Doctype == "" || upload.Docname == "" || fileName == "" {
		return nil, errors.NewValidationError("doctype, docname and file name are required", errors.ErrCodeValidationFailed)
	}
	if l.maxUploadBytes > 0 && int64(len(upload.Content)) > l.maxUploadBytes {
		return nil, errors.NewValidationError(fmt.Sprintf("%s exceeds the upload limit", fileName), errors.ErrCodeUploadFailed)
	}
	if _, err := l.Get(ctx, upload.Doctype, upload.Docname); err != nil {
		return nil, err
	}

	name := uuid.New().String()
	url, err := l.blobs.Save(ctx, path.Join(name, fileName), upload.Content, upload.IsPrivate)
	if err != nil {
		l.logger.Error("failed to store file contents", "error", err, "file_name", fileName)
		return nil, errors.NewInternalError("Failed to store file", err)
	}

	rec := Record{
		"name":                name,
		"file_name":           fileName,
		"file_url":            url,
		"file_size":           int64(len(upload.Content)),
		"is_private":          upload.IsPrivate,
		"attached_to_doctype": upload.Doctype,
		"attached_to_name":    upload.Docname,
		"owner":               actor,
		"created_at":          time.Now(),
	}
	if err := l.store.Insert(ctx, DoctypeFile, rec); err != nil {
		if rmErr := l.blobs.Remove(ctx, url); rmErr != nil {
			l.logger.Error("failed to clean up orphaned file", "error", rmErr, "url", url)
		}
		return nil, err
	}

	l.logger.Info("file uploaded",
		"file", name,
		"file_name", fileName,
		"size", len(upload.Content),
		"attached_to_doctype", upload.Doctype,
		"attached_to_name", upload.Docname)

	return &UploadedFile{Name: name, FileName: fileName, FileURL: url, FileSize: int64(len(upload.Content))}, nil
}

func (l *Local) Invoke(ctx context.Context, action string, args map[string]any) (json.RawMessage, error) {
	result, err := l.actions.Call(ctx, action, Record(args))
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", action, err)
	}
	return raw, nil
}

func (l *Local) canDelete(ctx context.Context, doctype string, rec Record) error {
	if guard, ok := l.deleteGuards[doctype]; ok {
		return guard(ctx, rec)
	}
	if doctype == DoctypeFile {
		return nil
	}
	return requirePrivileged(ctx)
}

// requirePrivileged admits only Administrator and System Managers.
func requirePrivileged(ctx context.Context) error {
	actor, ok := errors.ActorFromContext(ctx)
	if !ok {
		return errors.NewUnauthorizedError("No authenticated actor", errors.ErrCodeUnauthorizedActor)
	}
	if !actor.IsPrivileged() {
		return errors.NewForbiddenError("Not permitted to delete this document", errors.ErrCodeUnauthorizedActor)
	}
	return nil
}

// canRead applies the doctype guard; parents caches parent checks for files.
func (l *Local) canRead(ctx context.Context, doctype string, rec Record, parents map[string]bool) bool {
	if guard, ok := l.guards[doctype]; ok && !guard(ctx, rec) {
		return false
	}
	if doctype != DoctypeFile {
		return true
	}

	parentType := rec.String("attached_to_doctype")
	guard, ok := l.guards[parentType]
	if !ok {
		return true
	}
	key := parentType + "/" + rec.String("attached_to_name")
	if allowed, seen := parents[key]; seen {
		return allowed
	}
	parent, err := l.store.Get(ctx, parentType, rec.String("attached_to_name"))
	allowed := err == nil && guard(ctx, parent)
	if parents != nil {
		parents[key] = allowed
	}
	return allowed
}

func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
