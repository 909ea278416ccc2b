package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/custom-timesheet/internal/transport/middleware"
)

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf bytes.Buffer
		lg  *slog.Logger
	)

	BeforeEach(func() {
		buf.Reset()
		lg = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	serve := func(req *http.Request, status int) string {
		var received string
		handler := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received = string(body)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"access_token":"abc","expires_in":900}`))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		return received
	}

	It("masks secrets in bodies and headers but leaves the request intact", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@example.com","password":"hunter2"}`))
		req.Header.Set("Authorization", "Bearer xyz")
		received := serve(req, http.StatusOK)

		Expect(received).To(ContainSubstring("hunter2"))
		out := buf.String()
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).NotTo(ContainSubstring("Bearer xyz"))
		Expect(out).NotTo(ContainSubstring(`abc`))
		Expect(out).To(ContainSubstring("a@example.com"))
		Expect(out).To(ContainSubstring(`"level":"INFO"`))
	})

	It("logs client errors as warnings", func() {
		serve(httptest.NewRequest(http.MethodGet, "/api/v1/timesheets/TS-1", nil), http.StatusNotFound)
		Expect(buf.String()).To(ContainSubstring(`"level":"WARN"`))
		Expect(buf.String()).To(ContainSubstring(`"status":404`))
	})

	It("skips bodies of multipart uploads", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheets/TS-1/attachments", strings.NewReader("binary-content"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		Expect(serve(req, http.StatusOK)).To(Equal("binary-content"))
		Expect(buf.String()).NotTo(ContainSubstring("binary-content"))
		Expect(buf.String()).NotTo(ContainSubstring("request_body"))
	})
})
