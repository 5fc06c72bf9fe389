package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/salarylink/loan-management/internal/auth"
	"github.com/salarylink/loan-management/internal/transport"
	"github.com/salarylink/loan-management/pkg/logger"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	ListByEmployer(employerID int64) ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.UserFromContext(r.Context())
	if !ok || principal == nil {
		h.Logger.Error("GetCurrentUser: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(principal.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", principal.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetUsersByEmployer handles GET /users/employer/{employerID}
func (h *Handler) GetUsersByEmployer(w http.ResponseWriter, r *http.Request) {
	employerIDStr := chi.URLParam(r, "employerID")
	employerID, err := strconv.ParseInt(employerIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetUsersByEmployer: invalid employer ID", "id", employerIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employer ID")
		return
	}

	users, err := h.Service.ListByEmployer(employerID)
	if err != nil {
		h.Logger.Error("GetUsersByEmployer: service error", "error", err, "employer_id", employerID)
		h.WriteError(w, http.StatusInternalServerError, "failed to get users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Users fetched successfully.",
		"data":    users,
	})
}
