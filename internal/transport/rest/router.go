package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/custom-timesheet/internal/approval"
	"github.com/frahmantamala/custom-timesheet/internal/attachment"
	"github.com/frahmantamala/custom-timesheet/internal/auth"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/dashboard"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
	"github.com/frahmantamala/custom-timesheet/internal/notification"
	"github.com/frahmantamala/custom-timesheet/internal/project"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
	"github.com/frahmantamala/custom-timesheet/internal/transport/middleware"
	"github.com/frahmantamala/custom-timesheet/internal/transport/swagger"
	"github.com/frahmantamala/custom-timesheet/internal/user"
)

// Handlers groups the HTTP handlers mounted under /api/v1. A nil handler
// leaves its routes unregistered.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	User       *user.Handler
	Timesheet  *timesheet.Handler
	Attachment *attachment.Handler
	Approval   *approval.Handler
	Project    *project.Handler
	Dashboard  *dashboard.Handler
	ToDo       *notification.Handler
	DocService *docservice.Handler
}

type Options struct {
	AllowedOrigins string
	OpenAPIPath    string
	Redirector     *middleware.Redirector
	// Validator checks requests against the OpenAPI document; nil disables it.
	Validator func(http.Handler) http.Handler
	// Files serves public attachment contents at FilesPrefix.
	Files       http.Handler
	FilesPrefix string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	if opts.Redirector != nil {
		router.Use(opts.Redirector.Middleware)
	}

	openAPIPath := opts.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get(swagger.DocumentURL, func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	if opts.Files != nil && opts.FilesPrefix != "" {
		router.Handle(opts.FilesPrefix+"/*", opts.Files)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/health/ready", h.Health.readyHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			if opts.Validator != nil {
				pr.Use(opts.Validator)
			}

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.With(middleware.RequireRoles(coreUser.RoleSystemManager)).Post("/users", h.User.CreateUser)
			}

			if h.Timesheet != nil {
				pr.Route("/timesheets", func(tr chi.Router) {
					tr.Get("/", h.Timesheet.ListTimesheets)
					tr.Post("/", h.Timesheet.CreateTimesheet)
					tr.Post("/validate", h.Timesheet.ValidateTimesheet)
					tr.Get("/{name}", h.Timesheet.GetTimesheet)
					tr.Put("/{name}", h.Timesheet.UpdateTimesheet)
					tr.Post("/{name}/submit", h.Timesheet.SubmitTimesheet)

					if h.Attachment != nil {
						tr.Get("/{name}/attachments", h.Attachment.ListAttachments)
						tr.Post("/{name}/attachments", h.Attachment.UploadAttachments)
						tr.Delete("/{name}/attachments/{file}", h.Attachment.RemoveAttachment)
					}

					if h.Approval != nil {
						tr.Get("/{name}/approval", h.Approval.GetApproval)
						tr.Post("/{name}/approval", h.Approval.DecideApproval)
					}
				})
			}

			if h.Approval != nil {
				pr.Route("/approvals", func(ar chi.Router) {
					ar.Get("/", h.Approval.ListApprovals)
					ar.Post("/bulk-approve", h.Approval.BulkApprove)
					ar.Post("/bulk-reject", h.Approval.BulkReject)
				})
			}

			if h.Project != nil {
				pr.Route("/projects", func(pjr chi.Router) {
					pjr.Get("/", h.Project.GetProjects)
					pjr.Get("/{name}", h.Project.GetProject)
					pjr.Get("/{name}/tasks", h.Project.GetTasks)

					pjr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequireRoles(coreUser.RoleProjectsManager))
						mr.Post("/", h.Project.CreateProject)
						mr.Put("/{name}/approvers", h.Project.SetApprovers)
						mr.Post("/{name}/tasks", h.Project.CreateTask)
					})
				})
			}

			if h.Dashboard != nil {
				pr.Get("/dashboard", h.Dashboard.GetDashboard)
			}

			if h.ToDo != nil {
				pr.Get("/todos", h.ToDo.ListToDos)
				pr.Post("/todos/{name}/close", h.ToDo.CloseToDo)
			}

			if h.DocService != nil {
				pr.Get("/resource/{doctype}", h.DocService.ListDocuments)
				pr.Get("/resource/{doctype}/{name}", h.DocService.GetDocument)
				pr.Delete("/resource/{doctype}/{name}", h.DocService.DeleteDocument)
				pr.Get("/method/whoami", h.DocService.WhoAmI)
				pr.Post("/method/upload_file", h.DocService.UploadFile)
				pr.Post("/method/{action}", h.DocService.InvokeAction)
			}
		})
	})
}
