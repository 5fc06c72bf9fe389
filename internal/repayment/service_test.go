package repayment_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/salarylink/loan-management/internal"
	"github.com/salarylink/loan-management/internal/core/events"
	"github.com/salarylink/loan-management/internal/loan"
	"github.com/salarylink/loan-management/internal/repayment"
	"github.com/salarylink/loan-management/internal/user"
)

func TestRepaymentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RepaymentService Suite")
}

type mockRepaymentRepository struct {
	repayments        map[int64]*repayment.Repayment
	updateStatusError error
	nextID            int64
}

func newMockRepaymentRepository() *mockRepaymentRepository {
	return &mockRepaymentRepository{
		repayments: make(map[int64]*repayment.Repayment),
		nextID:     1,
	}
}

func (m *mockRepaymentRepository) Create(r *repayment.Repayment) error {
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	m.repayments[r.ID] = r
	return nil
}

func (m *mockRepaymentRepository) GetByID(id int64) (*repayment.Repayment, error) {
	r, exists := m.repayments[id]
	if !exists {
		return nil, repayment.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRepaymentRepository) GetByUserID(userID int64) ([]*repayment.RepaymentDetail, error) {
	var result []*repayment.RepaymentDetail
	for _, r := range m.repayments {
		if r.UserID == userID {
			result = append(result, &repayment.RepaymentDetail{Repayment: *r})
		}
	}
	return result, nil
}

func (m *mockRepaymentRepository) GetByEmployerID(employerID int64) ([]*repayment.RepaymentDetail, error) {
	return nil, nil
}

func (m *mockRepaymentRepository) UpdateStatus(id int64, status string) (*repayment.Repayment, error) {
	if m.updateStatusError != nil {
		return nil, m.updateStatusError
	}
	r, exists := m.repayments[id]
	if !exists {
		return nil, repayment.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	copied := *r
	return &copied, nil
}

// mockLoanLedger tracks a single loan balance the way the loan service does.
type mockLoanLedger struct {
	balance     decimal.Decimal
	debitError  error
	debitCalled int
}

func (m *mockLoanLedger) ApplyRepayment(transactionID string, amount decimal.Decimal) (*loan.LoanApplication, error) {
	m.debitCalled++
	if m.debitError != nil {
		return nil, m.debitError
	}
	if m.balance.LessThan(amount) {
		return nil, internal.NewInvalidAmountError("Repayment amount exceeds the remaining balance", internal.ErrCodeAmountExceedsDebt)
	}
	m.balance = m.balance.Sub(amount)
	status := loan.StatusPending
	if m.balance.IsZero() {
		status = loan.StatusCompleted
	}
	return &loan.LoanApplication{
		TransactionID: transactionID,
		LeftToRepay:   m.balance,
		Status:        status,
	}, nil
}

type mockUserDirectory struct {
	users map[int64]*user.User
}

func (m *mockUserDirectory) GetByID(userID int64) (*user.User, error) {
	u, exists := m.users[userID]
	if !exists {
		return nil, user.ErrNotFound
	}
	return u, nil
}

var _ = Describe("RepaymentService", func() {
	var (
		repo    *mockRepaymentRepository
		ledger  *mockLoanLedger
		users   *mockUserDirectory
		service *repayment.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	validDTO := func() repayment.SubmitRepaymentDTO {
		return repayment.SubmitRepaymentDTO{
			LoanID:        1,
			TransactionID: "AAAABBBBCCCCDDDDEEE1",
			Amount:        decimal.NewFromInt(500),
			UserID:        1,
		}
	}

	BeforeEach(func() {
		repo = newMockRepaymentRepository()
		ledger = &mockLoanLedger{balance: decimal.NewFromInt(3000)}
		users = &mockUserDirectory{users: map[int64]*user.User{
			1: {ID: 1, Name: "Dewi", UserType: user.TypeEmployee},
		}}
		service = repayment.NewService(repo, ledger, users, events.NewEventBus(testLogger), testLogger)
	})

	Describe("Submit", func() {
		It("should record a pending repayment without touching the loan balance", func() {
			created, err := service.Submit(validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(repayment.StatusPending))
			Expect(ledger.debitCalled).To(BeZero())
		})

		It("should keep an explicitly provided status", func() {
			dto := validDTO()
			dto.Status = repayment.StatusApproved

			created, err := service.Submit(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Status).To(Equal(repayment.StatusApproved))
		})

		It("should reject an amount below 1", func() {
			dto := validDTO()
			dto.Amount = decimal.NewFromFloat(0.5)

			_, err := service.Submit(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should return not found for an unknown user", func() {
			dto := validDTO()
			dto.UserID = 42

			_, err := service.Submit(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeUserNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		var repaymentID int64

		BeforeEach(func() {
			created, err := service.Submit(validDTO())
			Expect(err).NotTo(HaveOccurred())
			repaymentID = created.ID
		})

		It("should set any valid status without touching the loan balance", func() {
			updated, err := service.UpdateStatus(repaymentID, repayment.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(repayment.StatusApproved))
			Expect(ledger.debitCalled).To(BeZero())
		})

		It("should allow moving an approved record back to pending", func() {
			_, err := service.UpdateStatus(repaymentID, repayment.StatusApproved)
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateStatus(repaymentID, repayment.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(repayment.StatusPending))
		})

		It("should reject an unknown status value", func() {
			_, err := service.UpdateStatus(repaymentID, "Settled")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should return not found for an unknown repayment", func() {
			_, err := service.UpdateStatus(999, repayment.StatusApproved)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRepaymentNotFound))
		})
	})

	Describe("Approve", func() {
		var repaymentID int64

		BeforeEach(func() {
			created, err := service.Submit(validDTO())
			Expect(err).NotTo(HaveOccurred())
			repaymentID = created.ID
		})

		It("should debit the loan and mark the repayment approved", func() {
			approved, application, err := service.Approve(context.Background(), repaymentID)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(repayment.StatusApproved))
			Expect(application.LeftToRepay.Equal(decimal.NewFromInt(2500))).To(BeTrue())
			Expect(ledger.debitCalled).To(Equal(1))
		})

		It("should refuse a repayment that is not pending", func() {
			_, err := service.UpdateStatus(repaymentID, repayment.StatusRejected)
			Expect(err).NotTo(HaveOccurred())

			_, _, err = service.Approve(context.Background(), repaymentID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRepaymentNotPending))
			Expect(ledger.debitCalled).To(BeZero())
		})

		It("should keep the record pending when the ledger debit fails", func() {
			ledger.debitError = errors.New("db down")

			_, _, err := service.Approve(context.Background(), repaymentID)
			Expect(err).To(HaveOccurred())

			current, err := service.GetByID(repaymentID)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.Status).To(Equal(repayment.StatusPending))
		})

		It("should surface the amount-exceeds-balance error from the ledger", func() {
			ledger.balance = decimal.NewFromInt(100)

			_, _, err := service.Approve(context.Background(), repaymentID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeAmountExceedsDebt))
		})

		It("should surface a consistency error when the status write fails after the debit", func() {
			repo.updateStatusError = errors.New("db down")

			_, _, err := service.Approve(context.Background(), repaymentID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConsistency))
			Expect(appErr.Code).To(Equal(internal.ErrCodeApprovalIncomplete))

			// the debit went through even though approval was not recorded
			Expect(ledger.balance.Equal(decimal.NewFromInt(2500))).To(BeTrue())
		})

		It("should return not found for an unknown repayment", func() {
			_, _, err := service.Approve(context.Background(), 999)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRepaymentNotFound))
		})
	})

	Describe("ListByUser", func() {
		It("should return an empty slice when the user has no repayments", func() {
			repayments, err := service.ListByUser(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(repayments).NotTo(BeNil())
			Expect(repayments).To(BeEmpty())
		})
	})
})
