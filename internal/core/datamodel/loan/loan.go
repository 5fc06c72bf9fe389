package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanApplication struct {
	ID                   int64           `gorm:"primaryKey"`
	TransactionID        string          `gorm:"column:transaction_id;uniqueIndex;not null"`
	EmployeeID           int64           `gorm:"column:employee_id;not null"`
	LoanAmount           decimal.Decimal `gorm:"column:loan_amount;type:decimal(10,2);not null"`
	LeftToRepay          decimal.Decimal `gorm:"column:left_to_repay;type:decimal(10,2);not null"`
	SelectedPlan         int             `gorm:"column:selected_plan;not null"`
	InterestRate         decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2);not null"`
	LoanPurpose          string          `gorm:"column:loan_purpose;not null"`
	ProcessingFee        decimal.Decimal `gorm:"column:processing_fee;type:decimal(10,2);not null"`
	TotalAmountToReceive decimal.Decimal `gorm:"column:total_amount_to_receive;type:decimal(10,2);not null"`
	Status               string          `gorm:"column:status;default:Pending"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}
