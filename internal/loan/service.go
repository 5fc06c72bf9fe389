package loan

import (
	"context"
	"log/slog"

	"github.com/salarylink/loan-management/internal"
	"github.com/salarylink/loan-management/internal/core/events"
	"github.com/salarylink/loan-management/internal/user"
	"github.com/salarylink/loan-management/pkg/id"
	"github.com/shopspring/decimal"
)

// Repository defines the data access methods for loan applications. The
// DebitBalance contract is the concurrency-critical operation: it must apply
// the decrement as a single atomic conditional update so that two concurrent
// repayments can never both read the same stale balance.
type Repository interface {
	Create(l *LoanApplication) error
	GetByTransactionID(transactionID string) (*LoanApplication, error)
	GetByEmployeeID(employeeID int64) ([]*LoanApplication, error)
	GetByEmployerID(employerID int64) ([]*LoanWithEmployee, error)
	UpdateStatus(transactionID, status string) (*LoanApplication, error)
	DebitBalance(transactionID string, amount decimal.Decimal) (*LoanApplication, error)
	GetManualReview() ([]*ManualReviewLoan, error)
}

// UserDirectory resolves referenced users at creation time.
type UserDirectory interface {
	GetByID(userID int64) (*user.User, error)
}

// Service handles the loan lifecycle: creation, status transitions, and
// repayment application against the outstanding balance.
type Service struct {
	repo   Repository
	users  UserDirectory
	events *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		events: eventBus,
		logger: logger,
	}
}

// CreateLoanApplication validates the request, generates a fresh transaction
// identifier, and persists the application with left_to_repay initialized to
// the full principal and status Pending.
func (s *Service) CreateLoanApplication(dto CreateLoanDTO) (*LoanApplication, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("loan validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	if _, err := s.users.GetByID(dto.EmployeeID); err != nil {
		s.logger.Error("loan creation for unknown employee", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewNotFoundError("Employee not found", internal.ErrCodeUserNotFound)
	}

	application := &LoanApplication{
		TransactionID:        id.NewTransactionID(),
		EmployeeID:           dto.EmployeeID,
		LoanAmount:           dto.LoanAmount,
		LeftToRepay:          dto.LoanAmount,
		SelectedPlan:         dto.SelectedPlan,
		InterestRate:         dto.InterestRate,
		LoanPurpose:          dto.LoanPurpose,
		ProcessingFee:        dto.ProcessingFee,
		TotalAmountToReceive: dto.TotalAmountToReceive,
		Status:               StatusPending,
	}

	if err := s.repo.Create(application); err != nil {
		if err == ErrDuplicateTransactionID {
			// the store's unique constraint is the ultimate guard on token collisions
			s.logger.Error("transaction id collision", "transaction_id", application.TransactionID)
			return nil, internal.NewConflictError("Transaction identifier already exists", internal.ErrCodeTransactionIDTaken)
		}
		s.logger.Error("failed to create loan application", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	s.logger.Info("loan application created",
		"transaction_id", application.TransactionID,
		"employee_id", application.EmployeeID,
		"loan_amount", application.LoanAmount,
		"selected_plan", application.SelectedPlan)

	return application, nil
}

// GetByTransactionID fetches a single application by its business key.
func (s *Service) GetByTransactionID(transactionID string) (*LoanApplication, error) {
	application, err := s.repo.GetByTransactionID(transactionID)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.NewNotFoundError("Loan application not found", internal.ErrCodeLoanNotFound)
		}
		return nil, err
	}
	return application, nil
}

// ListByEmployee returns all applications owned by the employee.
func (s *Service) ListByEmployee(employeeID int64) ([]*LoanApplication, error) {
	applications, err := s.repo.GetByEmployeeID(employeeID)
	if err != nil {
		s.logger.Error("failed to list loans by employee", "error", err, "employee_id", employeeID)
		return nil, err
	}
	if applications == nil {
		applications = []*LoanApplication{}
	}
	return applications, nil
}

// ListByEmployer resolves the employer's roster and returns the union of
// their applications, each with the embedded employee summary.
func (s *Service) ListByEmployer(employerID int64) ([]*LoanWithEmployee, error) {
	applications, err := s.repo.GetByEmployerID(employerID)
	if err != nil {
		s.logger.Error("failed to list loans by employer", "error", err, "employer_id", employerID)
		return nil, err
	}
	if applications == nil {
		applications = []*LoanWithEmployee{}
	}
	return applications, nil
}

// UpdateStatus moves the application to the given status. Any-to-any
// transitions are accepted for compatibility, but off-lifecycle ones are
// logged and published for audit.
func (s *Service) UpdateStatus(ctx context.Context, transactionID, status string) (*LoanApplication, error) {
	if err := (UpdateLoanStatusDTO{Status: status}).Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByTransactionID(transactionID)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.NewNotFoundError("Loan application not found", internal.ErrCodeLoanNotFound)
		}
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(transactionID, status)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.NewNotFoundError("Loan application not found", internal.ErrCodeLoanNotFound)
		}
		s.logger.Error("failed to update loan status", "error", err, "transaction_id", transactionID)
		return nil, err
	}

	offLifecycle := !IsLifecycleTransition(current.Status, status)
	if offLifecycle {
		s.logger.Warn("off-lifecycle status transition",
			"transaction_id", transactionID,
			"from_status", current.Status,
			"to_status", status)
	}
	if s.events != nil {
		_ = s.events.Publish(ctx, events.NewLoanStatusChangedEvent(transactionID, current.Status, status, offLifecycle))
	}

	s.logger.Info("loan status updated",
		"transaction_id", transactionID,
		"from_status", current.Status,
		"to_status", status)

	return updated, nil
}

// ApplyRepayment debits the outstanding balance by amount. When the balance
// reaches zero the application is marked Completed in the same atomic update;
// this is the only path into Completed. Amounts exceeding the balance are
// rejected without mutation.
func (s *Service) ApplyRepayment(transactionID string, amount decimal.Decimal) (*LoanApplication, error) {
	if err := (RepayDTO{Amount: amount}).Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.DebitBalance(transactionID, amount)
	if err != nil {
		switch err {
		case ErrNotFound:
			return nil, internal.NewNotFoundError("Loan application not found", internal.ErrCodeLoanNotFound)
		case ErrAmountExceedsBalance:
			s.logger.Warn("repayment exceeds remaining balance",
				"transaction_id", transactionID,
				"amount", amount)
			return nil, internal.NewInvalidAmountError("Repayment amount exceeds the remaining balance", internal.ErrCodeAmountExceedsDebt)
		default:
			s.logger.Error("failed to apply repayment", "error", err, "transaction_id", transactionID)
			return nil, err
		}
	}

	s.logger.Info("repayment applied",
		"transaction_id", transactionID,
		"amount", amount,
		"left_to_repay", updated.LeftToRepay,
		"status", updated.Status)

	return updated, nil
}

// ListManualReview returns all applications flagged for out-of-band human
// adjudication, joined with employee and employer names.
func (s *Service) ListManualReview() ([]*ManualReviewLoan, error) {
	applications, err := s.repo.GetManualReview()
	if err != nil {
		s.logger.Error("failed to list manual review queue", "error", err)
		return nil, err
	}
	if applications == nil {
		applications = []*ManualReviewLoan{}
	}
	return applications, nil
}
