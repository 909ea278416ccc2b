package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	userDatamodel "github.com/frahmantamala/custom-timesheet/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
	"github.com/frahmantamala/custom-timesheet/internal/user"
	userPostgres "github.com/frahmantamala/custom-timesheet/internal/user/postgres"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		actor  *coreUser.Actor
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if actor != nil {
			req = req.WithContext(appErrors.ContextWithActor(req.Context(), actor))
		}
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
		Expect(db.AutoMigrate(&userDatamodel.User{}, &userDatamodel.UserRole{})).To(Succeed())

		service := user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, quietLogger())
		_, err = service.Create(context.Background(), nil, user.CreateUserDTO{
			Email:    "admin@example.com",
			FullName: "Admin",
			Password: "password123",
			Roles:    []string{coreUser.RoleSystemManager},
		})
		Expect(err).NotTo(HaveOccurred())

		handler := user.NewHandler(service, quietLogger())
		router = chi.NewRouter()
		router.Get("/users/me", handler.GetCurrentUser)
		router.Post("/users", handler.CreateUser)
		actor = &coreUser.Actor{ID: "admin@example.com", Roles: []string{coreUser.RoleSystemManager}}
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("returns the current user with roles and without the hash", func() {
		w := do(http.MethodGet, "/users/me", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))

		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		Expect(u.Email).To(Equal("admin@example.com"))
		Expect(u.Roles).To(Equal([]string{coreUser.RoleSystemManager}))
	})

	It("creates employees with a default role", func() {
		w := do(http.MethodPost, "/users", user.CreateUserDTO{
			Email:    "ada@example.com",
			FullName: "Ada",
			Employee: "EMP-1",
			Password: "password123",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		actor = &coreUser.Actor{ID: "ada@example.com"}
		w = do(http.MethodGet, "/users/me", nil)
		var u user.User
		Expect(json.Unmarshal(w.Body.Bytes(), &u)).To(Succeed())
		Expect(u.Employee).To(Equal("EMP-1"))
		Expect(u.Roles).To(Equal([]string{coreUser.RoleEmployee}))
	})

	It("refuses user creation by employees", func() {
		actor = &coreUser.Actor{ID: "ada@example.com", Roles: []string{coreUser.RoleEmployee}}
		w := do(http.MethodPost, "/users", user.CreateUserDTO{Email: "x@example.com", FullName: "X", Password: "password123"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("rejects short passwords and unknown roles", func() {
		w := do(http.MethodPost, "/users", user.CreateUserDTO{Email: "x@example.com", FullName: "X", Password: "short", Roles: []string{"Wizard"}})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("reports duplicates", func() {
		w := do(http.MethodPost, "/users", user.CreateUserDTO{Email: "admin@example.com", FullName: "Dup", Password: "password123"})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("answers 404 when the actor has no user row", func() {
		actor = &coreUser.Actor{ID: "ghost@example.com"}
		w := do(http.MethodGet, "/users/me", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
