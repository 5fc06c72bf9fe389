package repayment

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanID is denormalized for display only; transaction_id is the join key.
type Repayment struct {
	ID            int64           `gorm:"primaryKey"`
	LoanID        int64           `gorm:"column:loan_id;not null"`
	TransactionID string          `gorm:"column:transaction_id;not null;index"`
	UserID        int64           `gorm:"column:user_id;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null"`
	Status        string          `gorm:"column:status;default:Pending"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Repayment) TableName() string {
	return "repayments"
}
