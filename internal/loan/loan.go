package loan

import (
	"errors"
	"time"

	loanDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/loan"
	"github.com/shopspring/decimal"
)

type LoanApplication struct {
	ID                   int64           `json:"id"`
	TransactionID        string          `json:"transaction_id"`
	EmployeeID           int64           `json:"employee_id"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	LeftToRepay          decimal.Decimal `json:"left_to_repay"`
	SelectedPlan         int             `json:"selected_plan"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	LoanPurpose          string          `json:"loan_purpose"`
	ProcessingFee        decimal.Decimal `json:"processing_fee"`
	TotalAmountToReceive decimal.Decimal `json:"total_amount_to_receive"`
	Status               string          `json:"status"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

const (
	StatusPending   = "Pending"
	StatusActive    = "Active"
	StatusCompleted = "Completed"
	StatusRejected  = "Rejected"
	StatusManual    = "Manual"

	MaxPurposeLength = 255
)

// ValidStatus reports whether s is one of the five loan statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusRejected, StatusManual:
		return true
	}
	return false
}

// lifecycleTransitions is the canonical status graph. Transitions outside it
// are still accepted for compatibility with existing callers, but are audited.
var lifecycleTransitions = map[string][]string{
	StatusPending: {StatusActive, StatusRejected, StatusManual},
	StatusActive:  {StatusCompleted},
	StatusManual:  {StatusActive, StatusRejected},
}

// IsLifecycleTransition reports whether from→to follows the canonical graph.
// A no-op transition to the same status counts as on-graph.
func IsLifecycleTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range lifecycleTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsSettled reports whether the loan balance has been fully repaid.
func (l *LoanApplication) IsSettled() bool {
	return l.LeftToRepay.IsZero()
}

// EmployeeSummary is the embedded employee projection on employer-scoped
// loan listings.
type EmployeeSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type LoanWithEmployee struct {
	LoanApplication
	Employee *EmployeeSummary `json:"employee,omitempty"`
}

// PartySummary names a related user on the manual-review projection. Name
// falls back to "Unknown" when the relation is absent.
type PartySummary struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

type ManualReviewLoan struct {
	TransactionID        string          `json:"transaction_id"`
	LoanAmount           decimal.Decimal `json:"loan_amount"`
	LeftToRepay          decimal.Decimal `json:"left_to_repay"`
	SelectedPlan         int             `json:"selected_plan"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	LoanPurpose          string          `json:"loan_purpose"`
	ProcessingFee        decimal.Decimal `json:"processing_fee"`
	TotalAmountToReceive decimal.Decimal `json:"total_amount_to_receive"`
	Status               string          `json:"status"`
	Employee             PartySummary    `json:"employee"`
	Employer             PartySummary    `json:"employer"`
}

// UnknownPartyName is projected when an employee or employer relation is
// missing on the manual-review queue.
const UnknownPartyName = "Unknown"

// Repository-level sentinels, mapped to the error taxonomy by the service.
var (
	ErrNotFound               = errors.New("loan application not found")
	ErrAmountExceedsBalance   = errors.New("repayment amount exceeds the remaining balance")
	ErrDuplicateTransactionID = errors.New("transaction id already exists")
)

func ToDataModel(l *LoanApplication) *loanDatamodel.LoanApplication {
	return &loanDatamodel.LoanApplication{
		ID:                   l.ID,
		TransactionID:        l.TransactionID,
		EmployeeID:           l.EmployeeID,
		LoanAmount:           l.LoanAmount,
		LeftToRepay:          l.LeftToRepay,
		SelectedPlan:         l.SelectedPlan,
		InterestRate:         l.InterestRate,
		LoanPurpose:          l.LoanPurpose,
		ProcessingFee:        l.ProcessingFee,
		TotalAmountToReceive: l.TotalAmountToReceive,
		Status:               l.Status,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

func FromDataModel(l *loanDatamodel.LoanApplication) *LoanApplication {
	return &LoanApplication{
		ID:                   l.ID,
		TransactionID:        l.TransactionID,
		EmployeeID:           l.EmployeeID,
		LoanAmount:           l.LoanAmount,
		LeftToRepay:          l.LeftToRepay,
		SelectedPlan:         l.SelectedPlan,
		InterestRate:         l.InterestRate,
		LoanPurpose:          l.LoanPurpose,
		ProcessingFee:        l.ProcessingFee,
		TotalAmountToReceive: l.TotalAmountToReceive,
		Status:               l.Status,
		CreatedAt:            l.CreatedAt,
		UpdatedAt:            l.UpdatedAt,
	}
}

func FromDataModelSlice(loans []*loanDatamodel.LoanApplication) []*LoanApplication {
	result := make([]*LoanApplication, len(loans))
	for i, l := range loans {
		result[i] = FromDataModel(l)
	}
	return result
}
