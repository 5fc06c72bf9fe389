package postgres

import (
	"strings"
	"time"

	loanDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/loan"
	userDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/user"
	"github.com/salarylink/loan-management/internal/loan"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanRepository implements the loan.Repository interface using GORM
type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) Create(l *loan.LoanApplication) error {
	record := loan.ToDataModel(l)
	if err := r.db.Create(record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return loan.ErrDuplicateTransactionID
		}
		return err
	}
	*l = *loan.FromDataModel(record)
	return nil
}

func (r *LoanRepository) GetByTransactionID(transactionID string) (*loan.LoanApplication, error) {
	var record loanDatamodel.LoanApplication
	err := r.db.Where("transaction_id = ?", transactionID).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return loan.FromDataModel(&record), nil
}

func (r *LoanRepository) GetByEmployeeID(employeeID int64) ([]*loan.LoanApplication, error) {
	var records []*loanDatamodel.LoanApplication
	err := r.db.Where("employee_id = ?", employeeID).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return loan.FromDataModelSlice(records), nil
}

// GetByEmployerID resolves the employer's roster first, then returns the
// union of those employees' applications with the employee summary embedded.
func (r *LoanRepository) GetByEmployerID(employerID int64) ([]*loan.LoanWithEmployee, error) {
	var employees []*userDatamodel.User
	if err := r.db.Where("employer_id = ?", employerID).Find(&employees).Error; err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []*loan.LoanWithEmployee{}, nil
	}

	employeeIDs := make([]int64, len(employees))
	employeesByID := make(map[int64]*userDatamodel.User, len(employees))
	for i, e := range employees {
		employeeIDs[i] = e.ID
		employeesByID[e.ID] = e
	}

	var records []*loanDatamodel.LoanApplication
	if err := r.db.Where("employee_id IN ?", employeeIDs).Find(&records).Error; err != nil {
		return nil, err
	}

	result := make([]*loan.LoanWithEmployee, len(records))
	for i, record := range records {
		entry := &loan.LoanWithEmployee{LoanApplication: *loan.FromDataModel(record)}
		if e, ok := employeesByID[record.EmployeeID]; ok {
			entry.Employee = &loan.EmployeeSummary{ID: e.ID, Name: e.Name, Email: e.Email}
		}
		result[i] = entry
	}
	return result, nil
}

func (r *LoanRepository) UpdateStatus(transactionID, status string) (*loan.LoanApplication, error) {
	res := r.db.Model(&loanDatamodel.LoanApplication{}).
		Where("transaction_id = ?", transactionID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, loan.ErrNotFound
	}
	return r.GetByTransactionID(transactionID)
}

// DebitBalance applies the repayment as a single conditional decrement so
// concurrent repayments can never both pass the balance check on a stale
// read. The completion clamp runs in the same transaction.
func (r *LoanRepository) DebitBalance(transactionID string, amount decimal.Decimal) (*loan.LoanApplication, error) {
	var record loanDatamodel.LoanApplication
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&loanDatamodel.LoanApplication{}).
			Where("transaction_id = ? AND left_to_repay >= ?", transactionID, amount).
			Updates(map[string]interface{}{
				"left_to_repay": gorm.Expr("left_to_repay - ?", amount),
				"updated_at":    time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&loanDatamodel.LoanApplication{}).
				Where("transaction_id = ?", transactionID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return loan.ErrNotFound
			}
			return loan.ErrAmountExceedsBalance
		}

		// fully repaid: clamp to exactly 0 and complete
		if err := tx.Model(&loanDatamodel.LoanApplication{}).
			Where("transaction_id = ? AND left_to_repay <= 0", transactionID).
			Updates(map[string]interface{}{
				"left_to_repay": decimal.Zero,
				"status":        loan.StatusCompleted,
				"updated_at":    time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Where("transaction_id = ?", transactionID).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return loan.FromDataModel(&record), nil
}

// GetManualReview lists applications in Manual status joined with the
// employee's and employer's names, defaulting to "Unknown" when a relation
// is absent.
func (r *LoanRepository) GetManualReview() ([]*loan.ManualReviewLoan, error) {
	var records []*loanDatamodel.LoanApplication
	if err := r.db.Where("status = ?", loan.StatusManual).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*loan.ManualReviewLoan{}, nil
	}

	employeeIDs := make([]int64, 0, len(records))
	for _, record := range records {
		employeeIDs = append(employeeIDs, record.EmployeeID)
	}

	var employees []*userDatamodel.User
	if err := r.db.Where("id IN ?", employeeIDs).Find(&employees).Error; err != nil {
		return nil, err
	}
	employeesByID := make(map[int64]*userDatamodel.User, len(employees))
	employerIDs := make([]int64, 0, len(employees))
	for _, e := range employees {
		employeesByID[e.ID] = e
		if e.EmployerID != nil {
			employerIDs = append(employerIDs, *e.EmployerID)
		}
	}

	employersByID := make(map[int64]*userDatamodel.User)
	if len(employerIDs) > 0 {
		var employers []*userDatamodel.User
		if err := r.db.Where("id IN ?", employerIDs).Find(&employers).Error; err != nil {
			return nil, err
		}
		for _, e := range employers {
			employersByID[e.ID] = e
		}
	}

	result := make([]*loan.ManualReviewLoan, len(records))
	for i, record := range records {
		entry := &loan.ManualReviewLoan{
			TransactionID:        record.TransactionID,
			LoanAmount:           record.LoanAmount,
			LeftToRepay:          record.LeftToRepay,
			SelectedPlan:         record.SelectedPlan,
			InterestRate:         record.InterestRate,
			LoanPurpose:          record.LoanPurpose,
			ProcessingFee:        record.ProcessingFee,
			TotalAmountToReceive: record.TotalAmountToReceive,
			Status:               record.Status,
			Employee:             loan.PartySummary{Name: loan.UnknownPartyName},
			Employer:             loan.PartySummary{Name: loan.UnknownPartyName},
		}
		if e, ok := employeesByID[record.EmployeeID]; ok {
			entry.Employee = loan.PartySummary{ID: &e.ID, Name: e.Name}
			if e.EmployerID != nil {
				if emp, ok := employersByID[*e.EmployerID]; ok {
					entry.Employer = loan.PartySummary{ID: &emp.ID, Name: emp.Name}
				}
			}
		}
		result[i] = entry
	}
	return result, nil
}

func isDuplicateKeyError(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
