package loan

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/salarylink/loan-management/internal"
	"github.com/salarylink/loan-management/internal/transport"
	"github.com/salarylink/loan-management/pkg/logger"
	"github.com/shopspring/decimal"
)

type ServiceAPI interface {
	CreateLoanApplication(dto CreateLoanDTO) (*LoanApplication, error)
	GetByTransactionID(transactionID string) (*LoanApplication, error)
	ListByEmployee(employeeID int64) ([]*LoanApplication, error)
	ListByEmployer(employerID int64) ([]*LoanWithEmployee, error)
	UpdateStatus(ctx context.Context, transactionID, status string) (*LoanApplication, error)
	ApplyRepayment(transactionID string, amount decimal.Decimal) (*LoanApplication, error)
	ListManualReview() ([]*ManualReviewLoan, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateLoanApplication(w http.ResponseWriter, r *http.Request) {
	var dto CreateLoanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateLoanApplication: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	application, err := h.Service.CreateLoanApplication(dto)
	if err != nil {
		h.Logger.Error("CreateLoanApplication: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":          "Loan application submitted successfully.",
		"transaction_id":   application.TransactionID,
		"loan_application": application,
	})
}

func (h *Handler) GetLoanApplication(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	application, err := h.Service.GetByTransactionID(transactionID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"loan_application": application,
	})
}

func (h *Handler) GetEmployeeLoans(w http.ResponseWriter, r *http.Request) {
	employeeIDStr := chi.URLParam(r, "employeeID")
	employeeID, err := strconv.ParseInt(employeeIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetEmployeeLoans: invalid employee ID", "id", employeeIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	applications, err := h.Service.ListByEmployee(employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"loan_applications": applications,
	})
}

func (h *Handler) GetEmployerLoans(w http.ResponseWriter, r *http.Request) {
	employerIDStr := chi.URLParam(r, "employerID")
	employerID, err := strconv.ParseInt(employerIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetEmployerLoans: invalid employer ID", "id", employerIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employer ID")
		return
	}

	applications, err := h.Service.ListByEmployer(employerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"loan_applications": applications,
	})
}

func (h *Handler) UpdateLoanStatus(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	var dto UpdateLoanStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateLoanStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	application, err := h.Service.UpdateStatus(r.Context(), transactionID, dto.Status)
	if err != nil {
		h.Logger.Error("UpdateLoanStatus: service error", "error", err, "transaction_id", transactionID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateLoanStatus: status updated",
		"transaction_id", transactionID,
		"status", dto.Status,
		"actor_id", internal.UserIDFromContext(r.Context()))

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Loan status updated successfully.",
		"loan_application": application,
	})
}

func (h *Handler) RepayLoan(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	var dto RepayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RepayLoan: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	application, err := h.Service.ApplyRepayment(transactionID, dto.Amount)
	if err != nil {
		h.Logger.Error("RepayLoan: service error", "error", err, "transaction_id", transactionID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Repayment applied successfully.",
		"loan_application": application,
	})
}

func (h *Handler) GetManualReviewQueue(w http.ResponseWriter, r *http.Request) {
	applications, err := h.Service.ListManualReview()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"loan_applications": applications,
	})
}
