package repayment

import (
	"context"
	"log/slog"

	"github.com/salarylink/loan-management/internal"
	"github.com/salarylink/loan-management/internal/core/events"
	"github.com/salarylink/loan-management/internal/loan"
	"github.com/salarylink/loan-management/internal/user"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(r *Repayment) error
	GetByID(id int64) (*Repayment, error)
	GetByUserID(userID int64) ([]*RepaymentDetail, error)
	GetByEmployerID(employerID int64) ([]*RepaymentDetail, error)
	UpdateStatus(id int64, status string) (*Repayment, error)
}

// LoanLedger applies an approved repayment against the loan's outstanding
// balance. The implementation is the loan service, which guarantees the
// debit is atomic and completes the loan when the balance reaches zero.
type LoanLedger interface {
	ApplyRepayment(transactionID string, amount decimal.Decimal) (*loan.LoanApplication, error)
}

// UserDirectory resolves the submitting user at creation time.
type UserDirectory interface {
	GetByID(userID int64) (*user.User, error)
}

// Service handles the repayment record lifecycle: submission, listing,
// status changes, and the approve composite that also debits the loan.
type Service struct {
	repo   Repository
	loans  LoanLedger
	users  UserDirectory
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, loans LoanLedger, users UserDirectory, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		loans:  loans,
		users:  users,
		events: eventBus,
		logger: logger,
	}
}

// Submit records a repayment claim. The claim does not touch the loan
// balance; only Approve does.
func (s *Service) Submit(dto SubmitRepaymentDTO) (*Repayment, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("repayment validation failed", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	if _, err := s.users.GetByID(dto.UserID); err != nil {
		s.logger.Error("repayment submission for unknown user", "error", err, "user_id", dto.UserID)
		return nil, internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	}

	status := dto.Status
	if status == "" {
		status = StatusPending
	}

	r := &Repayment{
		LoanID:        dto.LoanID,
		TransactionID: dto.TransactionID,
		UserID:        dto.UserID,
		Amount:        dto.Amount,
		Status:        status,
	}

	if err := s.repo.Create(r); err != nil {
		s.logger.Error("failed to create repayment", "error", err, "user_id", dto.UserID)
		return nil, err
	}

	s.logger.Info("repayment submitted",
		"repayment_id", r.ID,
		"transaction_id", r.TransactionID,
		"user_id", r.UserID,
		"amount", r.Amount)

	return r, nil
}

// GetByID fetches a single repayment record.
func (s *Service) GetByID(id int64) (*Repayment, error) {
	r, err := s.repo.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.NewNotFoundError("Repayment not found", internal.ErrCodeRepaymentNotFound)
		}
		return nil, err
	}
	return r, nil
}

// ListByUser returns all repayments submitted by the user with loan details.
func (s *Service) ListByUser(userID int64) ([]*RepaymentDetail, error) {
	repayments, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list repayments by user", "error", err, "user_id", userID)
		return nil, err
	}
	if repayments == nil {
		repayments = []*RepaymentDetail{}
	}
	return repayments, nil
}

// ListByEmployer returns repayments submitted by the employer's roster,
// each with loan and submitter details.
func (s *Service) ListByEmployer(employerID int64) ([]*RepaymentDetail, error) {
	repayments, err := s.repo.GetByEmployerID(employerID)
	if err != nil {
		s.logger.Error("failed to list repayments by employer", "error", err, "employer_id", employerID)
		return nil, err
	}
	if repayments == nil {
		repayments = []*RepaymentDetail{}
	}
	return repayments, nil
}

// UpdateStatus sets the repayment record's status without touching the loan
// balance. Any valid status is accepted, including moving an Approved record
// back to Pending.
func (s *Service) UpdateStatus(id int64, status string) (*Repayment, error) {
	if err := (UpdateRepaymentStatusDTO{Status: status}).Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(id, status)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.NewNotFoundError("Repayment not found", internal.ErrCodeRepaymentNotFound)
		}
		s.logger.Error("failed to update repayment status", "error", err, "repayment_id", id)
		return nil, err
	}

	s.logger.Info("repayment status updated", "repayment_id", id, "status", status)
	return updated, nil
}

// Approve debits the loan balance by the repayment amount and marks the
// record Approved. Only Pending records can be approved. If the debit
// succeeds but the status write fails, the inconsistency is published and
// surfaced as a consistency error rather than swallowed.
func (s *Service) Approve(ctx context.Context, id int64) (*Repayment, *loan.LoanApplication, error) {
	r, err := s.repo.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil, internal.NewNotFoundError("Repayment not found", internal.ErrCodeRepaymentNotFound)
		}
		return nil, nil, err
	}

	if r.Status != StatusPending {
		return nil, nil, internal.NewConflictError("Only pending repayments can be approved", internal.ErrCodeRepaymentNotPending)
	}

	application, err := s.loans.ApplyRepayment(r.TransactionID, r.Amount)
	if err != nil {
		s.logger.Error("repayment approval: ledger debit failed",
			"error", err,
			"repayment_id", r.ID,
			"transaction_id", r.TransactionID)
		return nil, nil, err
	}

	updated, err := s.repo.UpdateStatus(r.ID, StatusApproved)
	if err != nil {
		s.logger.Error("repayment approval: balance debited but status write failed",
			"error", err,
			"repayment_id", r.ID,
			"transaction_id", r.TransactionID,
			"amount", r.Amount)
		if s.events != nil {
			_ = s.events.Publish(ctx, events.NewRepaymentInconsistentEvent(r.ID, r.TransactionID, r.Amount.String(), err.Error()))
		}
		return nil, nil, internal.NewConsistencyError("Loan balance was debited but the repayment could not be marked approved", err)
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, events.NewRepaymentApprovedEvent(r.ID, r.TransactionID, r.Amount.String(), r.UserID))
	}

	s.logger.Info("repayment approved",
		"repayment_id", r.ID,
		"transaction_id", r.TransactionID,
		"amount", r.Amount,
		"left_to_repay", application.LeftToRepay,
		"loan_status", application.Status)

	return updated, application, nil
}
