package repayment

import (
	"github.com/salarylink/loan-management/internal"
	"github.com/shopspring/decimal"
)

// minAmount is the smallest accepted repayment.
var minAmount = decimal.NewFromInt(1)

// SubmitRepaymentDTO records a repayment claim against a loan. Status is
// optional and defaults to Pending.
type SubmitRepaymentDTO struct {
	LoanID        int64           `json:"loan_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	UserID        int64           `json:"user_id"`
	Status        string          `json:"status,omitempty"`
}

func (dto SubmitRepaymentDTO) Validate() error {
	if dto.LoanID <= 0 {
		return internal.NewValidationFieldError("loan_id", "loan_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.TransactionID == "" {
		return internal.NewValidationFieldError("transaction_id", "transaction_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Amount.LessThan(minAmount) {
		return internal.NewValidationFieldError("amount", "amount must be at least 1", internal.ErrCodeInvalidAmount)
	}
	if dto.UserID <= 0 {
		return internal.NewValidationFieldError("user_id", "user_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" && !ValidStatus(dto.Status) {
		return internal.NewValidationFieldError("status", "status must be one of Pending, Approved, Rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// UpdateRepaymentStatusDTO carries the target status for a repayment record.
type UpdateRepaymentStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateRepaymentStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeInvalidStatus)
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationFieldError("status", "status must be one of Pending, Approved, Rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}
