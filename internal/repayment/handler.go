package repayment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/salarylink/loan-management/internal/loan"
	"github.com/salarylink/loan-management/internal/transport"
	"github.com/salarylink/loan-management/pkg/logger"
)

type ServiceAPI interface {
	Submit(dto SubmitRepaymentDTO) (*Repayment, error)
	GetByID(id int64) (*Repayment, error)
	ListByUser(userID int64) ([]*RepaymentDetail, error)
	ListByEmployer(employerID int64) ([]*RepaymentDetail, error)
	UpdateStatus(id int64, status string) (*Repayment, error)
	Approve(ctx context.Context, id int64) (*Repayment, *loan.LoanApplication, error)
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

func (h *Handler) SubmitRepayment(w http.ResponseWriter, r *http.Request) {
	var dto SubmitRepaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitRepayment: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	repayment, err := h.Service.Submit(dto)
	if err != nil {
		h.Logger.Error("SubmitRepayment: service error", "error", err, "user_id", dto.UserID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Repayment submitted successfully.",
		"repayment": repayment,
	})
}

func (h *Handler) GetUserRepayments(w http.ResponseWriter, r *http.Request) {
	userIDStr := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetUserRepayments: invalid user ID", "id", userIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	repayments, err := h.Service.ListByUser(userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"repayments": repayments,
	})
}

func (h *Handler) GetEmployerRepayments(w http.ResponseWriter, r *http.Request) {
	employerIDStr := chi.URLParam(r, "employerID")
	employerID, err := strconv.ParseInt(employerIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetEmployerRepayments: invalid employer ID", "id", employerIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employer ID")
		return
	}

	repayments, err := h.Service.ListByEmployer(employerID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"repayments": repayments,
	})
}

func (h *Handler) UpdateRepaymentStatus(w http.ResponseWriter, r *http.Request) {
	repaymentIDStr := chi.URLParam(r, "repaymentID")
	repaymentID, err := strconv.ParseInt(repaymentIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("UpdateRepaymentStatus: invalid repayment ID", "id", repaymentIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid repayment ID")
		return
	}

	var dto UpdateRepaymentStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateRepaymentStatus: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	repayment, err := h.Service.UpdateStatus(repaymentID, dto.Status)
	if err != nil {
		h.Logger.Error("UpdateRepaymentStatus: service error", "error", err, "repayment_id", repaymentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Repayment status updated successfully.",
		"repayment": repayment,
	})
}

func (h *Handler) ApproveRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentIDStr := chi.URLParam(r, "repaymentID")
	repaymentID, err := strconv.ParseInt(repaymentIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("ApproveRepayment: invalid repayment ID", "id", repaymentIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid repayment ID")
		return
	}

	repayment, application, err := h.Service.Approve(r.Context(), repaymentID)
	if err != nil {
		h.Logger.Error("ApproveRepayment: service error", "error", err, "repayment_id", repaymentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Repayment approved successfully.",
		"repayment":        repayment,
		"loan_application": application,
	})
}
