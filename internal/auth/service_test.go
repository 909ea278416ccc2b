package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/auth"
	coreUser "github.com/frahmantamala/custom-timesheet/internal/core/user"
)

type mockAuthRepository struct {
	creds  map[string]*auth.Credentials
	actors map[int64]*coreUser.Actor
}

func newMockAuthRepository() *mockAuthRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	return &mockAuthRepository{
		creds: map[string]*auth.Credentials{
			"ada@example.com":    {UserID: 1, Email: "ada@example.com", PasswordHash: string(hash), IsActive: true},
			"former@example.com": {UserID: 2, Email: "former@example.com", PasswordHash: string(hash), IsActive: false},
		},
		actors: map[int64]*coreUser.Actor{
			1: {ID: "ada@example.com", Employee: "EMP-1", Roles: []string{coreUser.RoleEmployee}},
			2: {ID: "former@example.com"},
		},
	}
}

func (m *mockAuthRepository) GetCredentials(_ context.Context, email string) (*auth.Credentials, error) {
	c, ok := m.creds[email]
	if !ok {
		return nil, appErrors.ErrInvalidCredentials
	}
	return c, nil
}

func (m *mockAuthRepository) GetActor(_ context.Context, userID int64) (*coreUser.Actor, bool, error) {
	a, ok := m.actors[userID]
	if !ok {
		return nil, false, appErrors.ErrInvalidToken
	}
	active := true
	for _, c := range m.creds {
		if c.UserID == userID {
			active = c.IsActive
		}
	}
	return a, active, nil
}

func testSecurity() appErrors.SecurityConfig {
	return appErrors.SecurityConfig{
		JWTAccessSecret:      "access-secret-access-secret-access-secret",
		JWTRefreshSecret:     "refresh-secret-refresh-secret-refresh-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	}
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockAuthRepository
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokens = auth.NewJWTTokenGenerator(testSecurity())
		service = auth.NewService(repo, tokens, bcrypt.MinCost, quietLogger())
		ctx = context.Background()
	})

	Describe("Authenticate", func() {
		It("issues an access and refresh token pair", func() {
			result, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ada@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.AccessToken).NotTo(BeEmpty())
			Expect(result.RefreshToken).NotTo(BeEmpty())
			Expect(result.ExpiresIn).To(Equal(int64(900)))

			claims, err := service.ValidateAccessToken(result.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
			Expect(claims.Email).To(Equal("ada@example.com"))
		})

		It("rejects a wrong password", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ada@example.com", Password: "nope"})
			Expect(err).To(Equal(appErrors.ErrInvalidCredentials))
		})

		It("does not reveal unknown emails", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ghost@example.com", Password: "correct_password"})
			Expect(err).To(Equal(appErrors.ErrInvalidCredentials))
		})

		It("refuses inactive users", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "former@example.com", Password: "correct_password"})
			Expect(err).To(Equal(appErrors.ErrUserInactive))
		})

		It("validates the request", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ada@example.com"})
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})
	})

	Describe("RefreshTokens", func() {
		It("exchanges a refresh token for a new pair", func() {
			first, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ada@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())

			next, err := service.RefreshTokens(ctx, first.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.AccessToken).NotTo(BeEmpty())
		})

		It("does not accept an access token as a refresh token", func() {
			first, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ada@example.com", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(ctx, first.AccessToken)
			Expect(err).To(Equal(appErrors.ErrInvalidToken))
		})

		It("refuses refresh for users deactivated since login", func() {
			token, err := tokens.GenerateRefreshToken("2", "former@example.com")
			Expect(err).NotTo(HaveOccurred())
			_, err = service.RefreshTokens(ctx, token)
			Expect(err).To(Equal(appErrors.ErrUserInactive))
		})
	})

	Describe("tokens", func() {
		It("reports expired access tokens", func() {
			expired := auth.NewJWTTokenGenerator(testSecurity())
			expired.AccessTokenTTL = -time.Minute

			token, err := expired.GenerateAccessToken("1", "ada@example.com")
			Expect(err).NotTo(HaveOccurred())
			_, err = tokens.ValidateAccessToken(token)
			Expect(err).To(Equal(appErrors.ErrTokenExpired))
		})

		It("rejects tokens signed with another secret", func() {
			cfg := testSecurity()
			cfg.JWTAccessSecret = "some-other-secret-some-other-secret-some"
			token, err := auth.NewJWTTokenGenerator(cfg).GenerateAccessToken("1", "ada@example.com")
			Expect(err).NotTo(HaveOccurred())
			_, err = tokens.ValidateAccessToken(token)
			Expect(err).To(Equal(appErrors.ErrInvalidToken))
		})

		It("rejects garbage", func() {
			_, err := tokens.ValidateAccessToken("not-a-jwt")
			Expect(err).To(Equal(appErrors.ErrInvalidToken))
		})
	})

	Describe("LoadActor", func() {
		It("returns the actor with roles", func() {
			actor, err := service.LoadActor(ctx, &auth.Claims{UserID: "1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(actor.ID).To(Equal("ada@example.com"))
			Expect(actor.HasRole(coreUser.RoleEmployee)).To(BeTrue())
		})

		It("rejects non-numeric subjects", func() {
			_, err := service.LoadActor(ctx, &auth.Claims{UserID: "abc"})
			Expect(err).To(Equal(appErrors.ErrInvalidToken))
		})
	})

	It("hashes passwords with bcrypt", func() {
		hash, err := service.HashPassword("s3cret")
		Expect(err).NotTo(HaveOccurred())
		Expect(bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret"))).To(Succeed())
	})
})
