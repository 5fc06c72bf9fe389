package auth_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/salarylink/loan-management/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuthService Suite")
}

type mockAuthRepository struct {
	passwordsByEmail map[string]string
	idsByEmail       map[string]string
	usersByID        map[int64]*auth.User
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		passwordsByEmail: make(map[string]string),
		idsByEmail:       make(map[string]string),
		usersByID:        make(map[int64]*auth.User),
	}
}

func (m *mockAuthRepository) GetPasswordForEmail(email string) (string, string, error) {
	hash, ok := m.passwordsByEmail[email]
	if !ok {
		return "", "", auth.ErrInvalidCredentials
	}
	return hash, m.idsByEmail[email], nil
}

func (m *mockAuthRepository) GetUserByID(userID int64) (*auth.User, error) {
	u, ok := m.usersByID[userID]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

var _ = Describe("AuthService", func() {
	var (
		repo     *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	const (
		accessSecret  = "test-access-secret-with-32-chars!!"
		refreshSecret = "test-refresh-secret-with-32-chars!"
	)

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokenGen = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, 7*24*time.Hour)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		repo.passwordsByEmail["dewi@test.com"] = string(hash)
		repo.idsByEmail["dewi@test.com"] = "1"
		repo.usersByID[1] = &auth.User{ID: 1, Email: "dewi@test.com", Name: "Dewi", UserType: auth.RoleEmployee}
	})

	Describe("Authenticate", func() {
		It("should return tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dewi@test.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "dewi@test.com", Password: "wrong"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@test.com", Password: "password"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should round-trip claims through a generated access token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dewi@test.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
			Expect(claims.Email).To(Equal("dewi@test.com"))
		})

		It("should reject a tampered token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dewi@test.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ValidateAccessToken(tokens.AccessToken + "x")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue a new token pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "dewi@test.com", Password: "password"})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("1"))
		})
	})

	Describe("GetUser", func() {
		It("should load the principal with its role", func() {
			u, err := service.GetUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsEmployee()).To(BeTrue())
			Expect(u.CanAdjudicate()).To(BeFalse())
		})
	})
})
