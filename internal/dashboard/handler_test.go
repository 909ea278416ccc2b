package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/dashboard"
)

var _ = Describe("Dashboard Handler", func() {
	var (
		repo    *mockDashboardRepository
		handler *dashboard.Handler
	)

	BeforeEach(func() {
		repo = &mockDashboardRepository{
			totals: dashboard.Totals{Count: 2, Hours: 15.5, Pending: 1},
			rows:   []dashboard.RecentRow{{Name: "TS-1", EmployeeName: "Ada", TotalHours: 7.5, DocStatus: 1}},
		}
		handler = dashboard.NewHandler(dashboard.NewService(repo, quietLogger()), quietLogger())
	})

	It("returns stats and recent timesheets for the actor", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?limit=5", nil)
		req = req.WithContext(appErrors.ContextWithActor(req.Context(), &coreUser.Actor{ID: "ada@example.com", Employee: "EMP-1"}))
		w := httptest.NewRecorder()

		handler.GetDashboard(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp dashboard.Response
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Stats.TotalTimesheets).To(Equal(2))
		Expect(resp.Stats.TotalHours).To(Equal(15.5))
		Expect(resp.Stats.AvgHours).To(Equal(7.8))
		Expect(resp.Recent).To(HaveLen(1))
		Expect(resp.Recent[0].Status).To(Equal("Submitted"))
		Expect(repo.lastLimit).To(Equal(5))
	})

	It("requires an actor", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
		w := httptest.NewRecorder()

		handler.GetDashboard(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
