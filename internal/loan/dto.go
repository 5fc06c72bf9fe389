package loan

import (
	"github.com/salarylink/loan-management/internal"
	"github.com/shopspring/decimal"
)

// CreateLoanDTO mirrors the loan-application form. Field names follow the
// public API contract.
type CreateLoanDTO struct {
	EmployeeID           int64           `json:"employee_id"`
	LoanAmount           decimal.Decimal `json:"loanAmount"`
	SelectedPlan         int             `json:"selectedPlan"`
	InterestRate         decimal.Decimal `json:"interestRate"`
	LoanPurpose          string          `json:"loanPurpose"`
	ProcessingFee        decimal.Decimal `json:"processingFee"`
	TotalAmountToReceive decimal.Decimal `json:"totalAmountToReceive"`
}

func (dto CreateLoanDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return internal.NewValidationFieldError("employee_id", "employee_id is required", internal.ErrCodeValidationFailed)
	}
	if !dto.LoanAmount.IsPositive() {
		return internal.NewValidationFieldError("loanAmount", "loan amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.SelectedPlan <= 0 {
		return internal.NewValidationFieldError("selectedPlan", "selected plan must be a positive number of months", internal.ErrCodeInvalidPlan)
	}
	if dto.InterestRate.IsNegative() {
		return internal.NewValidationFieldError("interestRate", "interest rate cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.LoanPurpose == "" {
		return internal.NewValidationFieldError("loanPurpose", "loan purpose is required", internal.ErrCodeInvalidPurpose)
	}
	if len(dto.LoanPurpose) > MaxPurposeLength {
		return internal.NewValidationFieldError("loanPurpose", "loan purpose must be at most 255 characters", internal.ErrCodeInvalidPurpose)
	}
	if dto.ProcessingFee.IsNegative() {
		return internal.NewValidationFieldError("processingFee", "processing fee cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.TotalAmountToReceive.IsNegative() {
		return internal.NewValidationFieldError("totalAmountToReceive", "total amount to receive cannot be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

// UpdateLoanStatusDTO carries the target status for a loan.
type UpdateLoanStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateLoanStatusDTO) Validate() error {
	if dto.Status == "" {
		return internal.NewValidationFieldError("status", "status is required", internal.ErrCodeInvalidStatus)
	}
	if !ValidStatus(dto.Status) {
		return internal.NewValidationFieldError("status", "status must be one of Pending, Active, Completed, Rejected, Manual", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// RepayDTO carries a repayment amount applied against a loan balance.
type RepayDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

func (dto RepayDTO) Validate() error {
	if !dto.Amount.IsPositive() {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	return nil
}
