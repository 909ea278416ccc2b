package middleware_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/custom-timesheet/internal/transport/middleware"
)

var _ = Describe("Redirector", func() {
	var redirector *middleware.Redirector

	BeforeEach(func() {
		redirector = middleware.NewRedirector([]middleware.RedirectRule{{From: "Timesheet", To: "Custom Timesheet"}})
	})

	DescribeTable("Resolve",
		func(path, want string, ok bool) {
			target, matched := redirector.Resolve(path)
			Expect(matched).To(Equal(ok))
			Expect(target).To(Equal(want))
		},
		Entry("resource list", "/api/v1/resource/Timesheet", "/api/v1/resource/Custom%20Timesheet", true),
		Entry("resource record", "/api/v1/resource/Timesheet/TS-1", "/api/v1/resource/Custom%20Timesheet/TS-1", true),
		Entry("case insensitive resource", "/api/v1/resource/timesheet", "/api/v1/resource/Custom%20Timesheet", true),
		Entry("app route", "/app/timesheet", "/app/custom-timesheet", true),
		Entry("app route with record", "/app/Timesheet/new", "/app/custom-timesheet/new", true),
		Entry("already renamed", "/api/v1/resource/Custom Timesheet", "", false),
		Entry("already renamed app route", "/app/custom-timesheet/TS-1", "", false),
		Entry("prefix of another doctype", "/api/v1/resource/Timesheet Detail", "", false),
		Entry("longer segment", "/app/timesheets", "", false),
		Entry("unrelated path", "/api/v1/timesheets", "", false),
		Entry("escaped doctype", "/api/v1/resource/Time%73heet/TS-1", "/api/v1/resource/Custom%20Timesheet/TS-1", true),
		Entry("escaped record name kept escaped", "/api/v1/resource/Timesheet/a%3Fb%23c", "/api/v1/resource/Custom%20Timesheet/a%3Fb%23c", true),
		Entry("escaped slash in record name", "/app/timesheet/a%2Fb", "/app/custom-timesheet/a%2Fb", true),
		Entry("malformed escape", "/app/time%zzsheet", "", false),
	)

	It("answers with a permanent redirect and keeps the query", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		handler := redirector.Middleware(next)

		req := httptest.NewRequest(http.MethodGet, "/app/timesheet?view=list", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusPermanentRedirect))
		Expect(rec.Header().Get("Location")).To(Equal("/app/custom-timesheet?view=list"))
	})

	It("does not let a record name smuggle a query or fragment into the target", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/resource/Timesheet/a%3Fb%23c?fields=name", nil)
		rec := httptest.NewRecorder()
		redirector.Middleware(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusPermanentRedirect))
		Expect(rec.Header().Get("Location")).To(Equal("/api/v1/resource/Custom%20Timesheet/a%3Fb%23c?fields=name"))
	})

	It("passes unmatched requests through", func() {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		rec := httptest.NewRecorder()
		redirector.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		Expect(rec.Code).To(Equal(http.StatusTeapot))
	})

	It("ignores incomplete and self-referencing rules", func() {
		empty := middleware.NewRedirector([]middleware.RedirectRule{{From: "", To: "X"}, {From: "Task", To: "task"}})
		_, ok := empty.Resolve("/app/task")
		Expect(ok).To(BeFalse())
	})

	It("slugs doctype names", func() {
		Expect(middleware.Slug(" Custom Timesheet ")).To(Equal("custom-timesheet"))
	})
})
