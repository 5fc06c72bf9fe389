package user_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/salarylink/loan-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserService Suite")
}

type mockUserRepository struct {
	users      map[int64]*user.User
	byEmployer map[int64][]*user.User
	getError   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[int64]*user.User),
		byEmployer: make(map[int64][]*user.User),
	}
}

func (m *mockUserRepository) GetByID(userID int64) (*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, exists := m.users[userID]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmployerID(employerID int64) ([]*user.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.byEmployer[employerID], nil
}

var _ = Describe("UserService", func() {
	var (
		repo    *mockUserRepository
		service *user.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		service = user.NewService(repo)
	})

	Describe("GetByID", func() {
		It("should return the user", func() {
			repo.users[1] = &user.User{ID: 1, Name: "Dewi", UserType: user.TypeEmployee}

			u, err := service.GetByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Dewi"))
			Expect(u.IsEmployee()).To(BeTrue())
		})

		It("should wrap the not-found error", func() {
			_, err := service.GetByID(42)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, user.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("ListByEmployer", func() {
		It("should return the roster", func() {
			employerID := int64(10)
			repo.byEmployer[10] = []*user.User{
				{ID: 1, Name: "Budi", UserType: user.TypeEmployee, EmployerID: &employerID},
				{ID: 2, Name: "Dewi", UserType: user.TypeEmployee, EmployerID: &employerID},
			}

			roster, err := service.ListByEmployer(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(roster).To(HaveLen(2))
		})

		It("should return an empty slice for an employer with no employees", func() {
			roster, err := service.ListByEmployer(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(roster).NotTo(BeNil())
			Expect(roster).To(BeEmpty())
		})

		It("should surface repository failures", func() {
			repo.getError = errors.New("db down")
			_, err := service.ListByEmployer(10)
			Expect(err).To(HaveOccurred())
		})
	})
})
