package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/auth"
)

var _ = Describe("Auth Handler", func() {
	var (
		service *auth.Service
		handler *auth.Handler
	)

	post := func(h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	login := func() auth.AuthTokens {
		tokens, err := service.Authenticate(context.Background(), auth.LoginDTO{Email: "ada@example.com", Password: "correct_password"})
		Expect(err).NotTo(HaveOccurred())
		return tokens
	}

	BeforeEach(func() {
		service = auth.NewService(newMockAuthRepository(), auth.NewJWTTokenGenerator(testSecurity()), bcrypt.MinCost, quietLogger())
		handler = auth.NewHandler(service, quietLogger())
	})

	It("logs in with valid credentials", func() {
		w := post(handler.Login, auth.LoginDTO{Email: "ada@example.com", Password: "correct_password"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var tokens auth.AuthTokens
		Expect(json.Unmarshal(w.Body.Bytes(), &tokens)).To(Succeed())
		Expect(tokens.AccessToken).NotTo(BeEmpty())
	})

	It("answers 401 for bad credentials", func() {
		w := post(handler.Login, auth.LoginDTO{Email: "ada@example.com", Password: "wrong"})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("answers 400 for a missing refresh token", func() {
		w := post(handler.RefreshToken, auth.RefreshTokenDTO{})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("refreshes tokens", func() {
		w := post(handler.RefreshToken, auth.RefreshTokenDTO{RefreshToken: login().RefreshToken})
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	Describe("AuthMiddleware", func() {
		var reached bool
		var next http.Handler

		BeforeEach(func() {
			reached = false
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				actor, ok := appErrors.ActorFromContext(r.Context())
				Expect(ok).To(BeTrue())
				Expect(actor.ID).To(Equal("ada@example.com"))
				reached = true
				w.WriteHeader(http.StatusNoContent)
			})
		})

		It("puts the actor into the request context", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+login().AccessToken)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(reached).To(BeTrue())
			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("rejects requests without a token", func() {
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(reached).To(BeFalse())
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects refresh tokens", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+login().RefreshToken)
			w := httptest.NewRecorder()
			handler.AuthMiddleware(next).ServeHTTP(w, req)
			Expect(reached).To(BeFalse())
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	It("accepts logout with a valid token", func() {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Header.Set("Authorization", "Bearer "+login().AccessToken)
		w := httptest.NewRecorder()
		handler.Logout(w, req)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
