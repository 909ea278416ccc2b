package approval_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/approval"
	approvalPostgres "github.com/frahmantamala/custom-timesheet/internal/approval/postgres"
	projectDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/project"
	timesheetDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/timesheet"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/timesheet"
	timesheetPostgres "github.com/frahmantamala/custom-timesheet/internal/timesheet/postgres"
)

var _ = Describe("Approval Handler Integration", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		actor   *coreUser.Actor
		service *approval.Service
	)

	withActor := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor != nil {
				r = r.WithContext(appErrors.ContextWithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(
			&timesheetDatamodel.CustomTimesheet{},
			&timesheetDatamodel.TimesheetDetail{},
			&timesheetDatamodel.TimesheetApproval{},
			&projectDatamodel.Project{},
		)).To(Succeed())

		Expect(db.Create(&projectDatamodel.Project{Name: "P1", ProjectName: "Apollo", Approver: "lead@example.com"}).Error).To(Succeed())

		timesheets := timesheetPostgres.NewTimesheetRepository(db)
		Expect(timesheets.Create(context.Background(), pendingTimesheet("TS-1", "P1"))).To(Succeed())

		service = approval.NewService(approvalPostgres.NewApprovalRepository(db), timesheets, nil, quietLogger())
		_, err = service.CreateApprovalsForTimesheet(context.Background(), "TS-1")
		Expect(err).NotTo(HaveOccurred())

		handler := approval.NewHandler(service, quietLogger())
		actor = &coreUser.Actor{ID: "lead@example.com", Employee: "EMP-9", Roles: []string{coreUser.RoleEmployee}}

		router = chi.NewRouter()
		router.Use(withActor)
		router.Get("/timesheets/{name}/approval", handler.GetApproval)
		router.Post("/timesheets/{name}/approval", handler.DecideApproval)
		router.Get("/approvals", handler.ListApprovals)
		router.Post("/approvals/bulk-approve", handler.BulkApprove)
		router.Post("/approvals/bulk-reject", handler.BulkReject)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("shows the approver's options", func() {
		w := do(http.MethodGet, "/timesheets/TS-1/approval", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var view approval.ApprovalView
		Expect(json.Unmarshal(w.Body.Bytes(), &view)).To(Succeed())
		Expect(view.CanApprove).To(BeTrue())
		Expect(view.Actions).To(ConsistOf(approval.ActionApprove, approval.ActionReject))
		Expect(view.Approvals).To(HaveLen(1))
	})

	It("rejects an empty reject comment with 400", func() {
		w := do(http.MethodPost, "/timesheets/TS-1/approval", approval.DecisionDTO{Action: approval.ActionReject})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("approves a pending timesheet", func() {
		w := do(http.MethodPost, "/timesheets/TS-1/approval", approval.DecisionDTO{Action: approval.ActionApprove, Comments: "fine"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			Message   string               `json:"message"`
			Timesheet *timesheet.Timesheet `json:"timesheet"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("Approved successfully"))
		Expect(resp.Timesheet.Status).To(Equal(timesheet.StatusApproved))

		w = do(http.MethodPost, "/timesheets/TS-1/approval", approval.DecisionDTO{Action: approval.ActionApprove})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("lists my approvals with indicators", func() {
		w := do(http.MethodGet, "/approvals", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var rows []approval.Approval
		Expect(json.Unmarshal(w.Body.Bytes(), &rows)).To(Succeed())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Indicator.Color).To(Equal("orange"))

		actor = &coreUser.Actor{ID: "someone@example.com"}
		w = do(http.MethodGet, "/approvals", nil)
		Expect(w.Body.String()).To(MatchJSON(`[]`))
	})

	It("bulk rejects with comments", func() {
		rows, err := service.List(context.Background(), actor, "", 10, 0)
		Expect(err).NotTo(HaveOccurred())

		w := do(http.MethodPost, "/approvals/bulk-reject", approval.BulkRejectDTO{Approvals: []string{rows[0].Name}, Comments: "redo"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"rejected":1}`))
	})

	It("requires an authenticated actor", func() {
		actor = nil
		w := do(http.MethodGet, "/approvals", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
