package postgres

import (
	"time"

	loanDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/loan"
	repaymentDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/repayment"
	userDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/user"
	"github.com/salarylink/loan-management/internal/repayment"
	"gorm.io/gorm"
)

// RepaymentRepository implements the repayment.Repository interface using GORM
type RepaymentRepository struct {
	db *gorm.DB
}

func NewRepaymentRepository(db *gorm.DB) repayment.Repository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) Create(rp *repayment.Repayment) error {
	record := repayment.ToDataModel(rp)
	if err := r.db.Create(record).Error; err != nil {
		return err
	}
	*rp = *repayment.FromDataModel(record)
	return nil
}

func (r *RepaymentRepository) GetByID(id int64) (*repayment.Repayment, error) {
	var record repaymentDatamodel.Repayment
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, repayment.ErrNotFound
		}
		return nil, err
	}
	return repayment.FromDataModel(&record), nil
}

func (r *RepaymentRepository) GetByUserID(userID int64) ([]*repayment.RepaymentDetail, error) {
	var records []*repaymentDatamodel.Repayment
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.decorate(records, false)
}

func (r *RepaymentRepository) GetByEmployerID(employerID int64) ([]*repayment.RepaymentDetail, error) {
	var employees []*userDatamodel.User
	if err := r.db.Where("employer_id = ?", employerID).Find(&employees).Error; err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []*repayment.RepaymentDetail{}, nil
	}

	employeeIDs := make([]int64, len(employees))
	for i, e := range employees {
		employeeIDs[i] = e.ID
	}

	var records []*repaymentDatamodel.Repayment
	if err := r.db.Where("user_id IN ?", employeeIDs).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return r.decorate(records, true)
}

func (r *RepaymentRepository) UpdateStatus(id int64, status string) (*repayment.Repayment, error) {
	res := r.db.Model(&repaymentDatamodel.Repayment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repayment.ErrNotFound
	}
	return r.GetByID(id)
}

// decorate embeds the loan snapshot, and optionally the submitter summary,
// on each repayment record.
func (r *RepaymentRepository) decorate(records []*repaymentDatamodel.Repayment, withUser bool) ([]*repayment.RepaymentDetail, error) {
	result := make([]*repayment.RepaymentDetail, len(records))
	if len(records) == 0 {
		return result, nil
	}

	transactionIDs := make([]string, 0, len(records))
	userIDs := make([]int64, 0, len(records))
	for _, record := range records {
		transactionIDs = append(transactionIDs, record.TransactionID)
		userIDs = append(userIDs, record.UserID)
	}

	var loans []*loanDatamodel.LoanApplication
	if err := r.db.Where("transaction_id IN ?", transactionIDs).Find(&loans).Error; err != nil {
		return nil, err
	}
	loansByTransactionID := make(map[string]*loanDatamodel.LoanApplication, len(loans))
	for _, l := range loans {
		loansByTransactionID[l.TransactionID] = l
	}

	usersByID := make(map[int64]*userDatamodel.User)
	if withUser {
		var users []*userDatamodel.User
		if err := r.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	for i, record := range records {
		detail := &repayment.RepaymentDetail{Repayment: *repayment.FromDataModel(record)}
		if l, ok := loansByTransactionID[record.TransactionID]; ok {
			detail.Loan = &repayment.LoanSnapshot{
				TransactionID: l.TransactionID,
				LoanAmount:    l.LoanAmount,
				LeftToRepay:   l.LeftToRepay,
				Status:        l.Status,
			}
		}
		if withUser {
			if u, ok := usersByID[record.UserID]; ok {
				detail.User = &repayment.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
			}
		}
		result[i] = detail
	}
	return result, nil
}
