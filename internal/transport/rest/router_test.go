package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/custom-timesheet/internal/lifecycle"
	"github.com/frahmantamala/custom-timesheet/internal/transport/middleware"
	"github.com/frahmantamala/custom-timesheet/internal/transport/rest"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(context.Context) error {
	return p.err
}

var _ = Describe("RegisterAllRoutes", func() {
	var (
		router *chi.Mux
		ready  *lifecycle.Ready
		db     *fakePinger
	)

	BeforeEach(func() {
		router = chi.NewRouter()
		ready = lifecycle.NewReady()
		db = &fakePinger{}
		rest.RegisterAllRoutes(router, rest.Handlers{
			Health: rest.NewHealthHandler(db, ready),
		}, rest.Options{
			Redirector: middleware.NewRedirector([]middleware.RedirectRule{{From: "Timesheet", To: "Custom Timesheet"}}),
		}, quietLogger())
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	It("reports not ready until the server resolves readiness", func() {
		Expect(get("/api/v1/health/ready").Code).To(Equal(http.StatusServiceUnavailable))
		ready.Resolve()
		Expect(get("/api/v1/health/ready").Code).To(Equal(http.StatusOK))
	})

	It("reports a failed start as not ready", func() {
		ready.Fail(errors.New("no blob store"))
		Expect(get("/api/v1/health/ready").Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("checks the database on /health", func() {
		Expect(get("/api/v1/health").Code).To(Equal(http.StatusOK))
		db.err = errors.New("connection refused")
		Expect(get("/api/v1/health").Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("answers ping", func() {
		Expect(get("/api/v1/ping").Code).To(Equal(http.StatusOK))
	})

	It("redirects legacy doctype routes before routing", func() {
		rec := get("/api/v1/resource/Timesheet/TS-1")
		Expect(rec.Code).To(Equal(http.StatusPermanentRedirect))
		Expect(rec.Header().Get("Location")).To(Equal("/api/v1/resource/Custom%20Timesheet/TS-1"))
	})

	It("tags responses with a trace id", func() {
		Expect(get("/api/v1/ping").Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())
	})
})
