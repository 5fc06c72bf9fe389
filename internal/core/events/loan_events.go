package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoanStatusChanged     = "loan.status_changed"
	EventTypeRepaymentApproved     = "repayment.approved"
	EventTypeRepaymentInconsistent = "repayment.inconsistent"
)

// LoanStatusChangedEvent is published for every status update. OffLifecycle
// marks transitions outside the canonical Pending→Active→Completed /
// Rejected / Manual graph; those are accepted but audited.
type LoanStatusChangedEvent struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	FromStatus    string `json:"from_status"`
	ToStatus      string `json:"to_status"`
	OffLifecycle  bool   `json:"off_lifecycle"`
}

func NewLoanStatusChangedEvent(transactionID, fromStatus, toStatus string, offLifecycle bool) *LoanStatusChangedEvent {
	return &LoanStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLoanStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"transaction_id": transactionID,
				"from_status":    fromStatus,
				"to_status":      toStatus,
				"off_lifecycle":  offLifecycle,
			},
		},
		TransactionID: transactionID,
		FromStatus:    fromStatus,
		ToStatus:      toStatus,
		OffLifecycle:  offLifecycle,
	}
}

type RepaymentApprovedEvent struct {
	BaseEvent
	RepaymentID   int64  `json:"repayment_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	UserID        int64  `json:"user_id"`
}

func NewRepaymentApprovedEvent(repaymentID int64, transactionID, amount string, userID int64) *RepaymentApprovedEvent {
	return &RepaymentApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRepaymentApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"repayment_id":   repaymentID,
				"transaction_id": transactionID,
				"amount":         amount,
				"user_id":        userID,
			},
		},
		RepaymentID:   repaymentID,
		TransactionID: transactionID,
		Amount:        amount,
		UserID:        userID,
	}
}

// RepaymentInconsistentEvent records the partial-failure state of the approve
// composite: the loan balance was debited but the repayment record could not
// be marked Approved.
type RepaymentInconsistentEvent struct {
	BaseEvent
	RepaymentID   int64  `json:"repayment_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Reason        string `json:"reason"`
}

func NewRepaymentInconsistentEvent(repaymentID int64, transactionID, amount, reason string) *RepaymentInconsistentEvent {
	return &RepaymentInconsistentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRepaymentInconsistent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"repayment_id":   repaymentID,
				"transaction_id": transactionID,
				"amount":         amount,
				"reason":         reason,
			},
		},
		RepaymentID:   repaymentID,
		TransactionID: transactionID,
		Amount:        amount,
		Reason:        reason,
	}
}
