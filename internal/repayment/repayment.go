package repayment

import (
	"errors"
	"time"

	repaymentDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/repayment"
	"github.com/shopspring/decimal"
)

type Repayment struct {
	ID            int64           `json:"id"`
	LoanID        int64           `json:"loan_id"`
	TransactionID string          `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the three repayment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LoanSnapshot is the loan projection embedded on repayment listings.
type LoanSnapshot struct {
	TransactionID string          `json:"transaction_id"`
	LoanAmount    decimal.Decimal `json:"loan_amount"`
	LeftToRepay   decimal.Decimal `json:"left_to_repay"`
	Status        string          `json:"status"`
}

// UserSummary is the submitter projection on employer-scoped listings.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type RepaymentDetail struct {
	Repayment
	Loan *LoanSnapshot `json:"loan,omitempty"`
	User *UserSummary  `json:"user,omitempty"`
}

var ErrNotFound = errors.New("repayment not found")

func ToDataModel(r *Repayment) *repaymentDatamodel.Repayment {
	return &repaymentDatamodel.Repayment{
		ID:            r.ID,
		LoanID:        r.LoanID,
		TransactionID: r.TransactionID,
		UserID:        r.UserID,
		Amount:        r.Amount,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func FromDataModel(r *repaymentDatamodel.Repayment) *Repayment {
	return &Repayment{
		ID:            r.ID,
		LoanID:        r.LoanID,
		TransactionID: r.TransactionID,
		UserID:        r.UserID,
		Amount:        r.Amount,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
