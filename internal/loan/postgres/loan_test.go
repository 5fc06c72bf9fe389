package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/salarylink/loan-management/internal/loan"
)

func TestLoanRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LoanRepository Suite")
}

type SQLiteUser struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash"`
	UserType     string    `gorm:"column:user_type;default:'employee'"`
	EmployerID   *int64    `gorm:"column:employer_id"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteLoanApplication struct {
	ID                   int64           `gorm:"primaryKey"`
	TransactionID        string          `gorm:"column:transaction_id;uniqueIndex;not null"`
	EmployeeID           int64           `gorm:"column:employee_id;not null"`
	LoanAmount           decimal.Decimal `gorm:"column:loan_amount;type:decimal(10,2)"`
	LeftToRepay          decimal.Decimal `gorm:"column:left_to_repay;type:decimal(10,2)"`
	SelectedPlan         int             `gorm:"column:selected_plan"`
	InterestRate         decimal.Decimal `gorm:"column:interest_rate;type:decimal(5,2)"`
	LoanPurpose          string          `gorm:"column:loan_purpose"`
	ProcessingFee        decimal.Decimal `gorm:"column:processing_fee;type:decimal(10,2)"`
	TotalAmountToReceive decimal.Decimal `gorm:"column:total_amount_to_receive;type:decimal(10,2)"`
	Status               string          `gorm:"column:status;default:'Pending'"`
	CreatedAt            time.Time       `gorm:"column:created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (SQLiteLoanApplication) TableName() string {
	return "loan_applications"
}

var _ = Describe("LoanRepository", func() {
	var (
		db   *gorm.DB
		repo loan.Repository
	)

	newLoan := func(transactionID string, employeeID int64, amount int64) *loan.LoanApplication {
		return &loan.LoanApplication{
			TransactionID:        transactionID,
			EmployeeID:           employeeID,
			LoanAmount:           decimal.NewFromInt(amount),
			LeftToRepay:          decimal.NewFromInt(amount),
			SelectedPlan:         6,
			InterestRate:         decimal.NewFromFloat(3.5),
			LoanPurpose:          "Medical bills",
			ProcessingFee:        decimal.NewFromInt(25),
			TotalAmountToReceive: decimal.NewFromInt(amount - 25),
			Status:               loan.StatusPending,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteLoanApplication{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewLoanRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create", func() {
		It("should create a loan application", func() {
			l := newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000)
			err := repo.Create(l)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.ID).To(BeNumerically(">", 0))
		})

		It("should reject a duplicate transaction id", func() {
			err := repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000))
			Expect(err).NotTo(HaveOccurred())

			err = repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 2, 1000))
			Expect(err).To(Equal(loan.ErrDuplicateTransactionID))
		})
	})

	Describe("GetByTransactionID", func() {
		It("should retrieve a created application", func() {
			created := newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000)
			Expect(repo.Create(created)).To(Succeed())

			retrieved, err := repo.GetByTransactionID("AAAABBBBCCCCDDDDEEE1")
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.EmployeeID).To(Equal(int64(1)))
			Expect(retrieved.LoanAmount.Equal(decimal.NewFromInt(3000))).To(BeTrue())
			Expect(retrieved.Status).To(Equal(loan.StatusPending))
		})

		It("should return ErrNotFound for an unknown transaction id", func() {
			retrieved, err := repo.GetByTransactionID("NOSUCHTRANSACTION999")
			Expect(err).To(Equal(loan.ErrNotFound))
			Expect(retrieved).To(BeNil())
		})
	})

	Describe("GetByEmployeeID", func() {
		It("should return only the employee's applications", func() {
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000))).To(Succeed())
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE2", 1, 1000))).To(Succeed())
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE3", 2, 2000))).To(Succeed())

			applications, err := repo.GetByEmployeeID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(applications).To(HaveLen(2))
		})
	})

	Describe("GetByEmployerID", func() {
		It("should return the roster's applications with employee summaries", func() {
			employerID := int64(10)
			Expect(db.Create(&SQLiteUser{ID: 10, Name: "Acme Corp", Email: "acme@test", UserType: "employer"}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 1, Name: "Dewi", Email: "dewi@test", EmployerID: &employerID}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 2, Name: "Budi", Email: "budi@test", EmployerID: &employerID}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 3, Name: "Citra", Email: "citra@test"}).Error).To(Succeed())

			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000))).To(Succeed())
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE2", 2, 1000))).To(Succeed())
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE3", 3, 2000))).To(Succeed())

			applications, err := repo.GetByEmployerID(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(applications).To(HaveLen(2))
			for _, a := range applications {
				Expect(a.Employee).NotTo(BeNil())
				Expect(a.Employee.Name).To(BeElementOf("Dewi", "Budi"))
			}
		})

		It("should return an empty slice for an employer with no roster", func() {
			applications, err := repo.GetByEmployerID(99)
			Expect(err).NotTo(HaveOccurred())
			Expect(applications).To(BeEmpty())
		})
	})

	Describe("UpdateStatus", func() {
		It("should update the status", func() {
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000))).To(Succeed())

			updated, err := repo.UpdateStatus("AAAABBBBCCCCDDDDEEE1", loan.StatusActive)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(loan.StatusActive))
		})

		It("should return ErrNotFound for an unknown transaction id", func() {
			_, err := repo.UpdateStatus("NOSUCHTRANSACTION999", loan.StatusActive)
			Expect(err).To(Equal(loan.ErrNotFound))
		})
	})

	Describe("DebitBalance", func() {
		BeforeEach(func() {
			Expect(repo.Create(newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000))).To(Succeed())
		})

		It("should debit the balance without completing the loan", func() {
			updated, err := repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(500))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.LeftToRepay.Equal(decimal.NewFromInt(2500))).To(BeTrue())
			Expect(updated.Status).To(Equal(loan.StatusPending))
		})

		It("should complete the loan at exactly zero balance", func() {
			_, err := repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(500))
			Expect(err).NotTo(HaveOccurred())

			updated, err := repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(2500))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.LeftToRepay.IsZero()).To(BeTrue())
			Expect(updated.Status).To(Equal(loan.StatusCompleted))
		})

		It("should reject an amount exceeding the balance without mutating it", func() {
			_, err := repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(500))
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(2500))
			Expect(err).NotTo(HaveOccurred())

			_, err = repo.DebitBalance("AAAABBBBCCCCDDDDEEE1", decimal.NewFromInt(1))
			Expect(err).To(Equal(loan.ErrAmountExceedsBalance))

			current, err := repo.GetByTransactionID("AAAABBBBCCCCDDDDEEE1")
			Expect(err).NotTo(HaveOccurred())
			Expect(current.LeftToRepay.IsZero()).To(BeTrue())
			Expect(current.Status).To(Equal(loan.StatusCompleted))
		})

		It("should return ErrNotFound for an unknown transaction id", func() {
			_, err := repo.DebitBalance("NOSUCHTRANSACTION999", decimal.NewFromInt(10))
			Expect(err).To(Equal(loan.ErrNotFound))
		})
	})

	Describe("GetManualReview", func() {
		It("should join employee and employer names and fall back to Unknown", func() {
			employerID := int64(10)
			Expect(db.Create(&SQLiteUser{ID: 10, Name: "Acme Corp", Email: "acme@test", UserType: "employer"}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 1, Name: "Dewi", Email: "dewi@test", EmployerID: &employerID}).Error).To(Succeed())

			withEmployer := newLoan("AAAABBBBCCCCDDDDEEE1", 1, 3000)
			withEmployer.Status = loan.StatusManual
			Expect(repo.Create(withEmployer)).To(Succeed())

			orphaned := newLoan("AAAABBBBCCCCDDDDEEE2", 77, 1000)
			orphaned.Status = loan.StatusManual
			Expect(repo.Create(orphaned)).To(Succeed())

			notManual := newLoan("AAAABBBBCCCCDDDDEEE3", 1, 500)
			Expect(repo.Create(notManual)).To(Succeed())

			queue, err := repo.GetManualReview()
			Expect(err).NotTo(HaveOccurred())
			Expect(queue).To(HaveLen(2))

			byTransactionID := make(map[string]*loan.ManualReviewLoan)
			for _, entry := range queue {
				byTransactionID[entry.TransactionID] = entry
			}

			Expect(byTransactionID["AAAABBBBCCCCDDDDEEE1"].Employee.Name).To(Equal("Dewi"))
			Expect(byTransactionID["AAAABBBBCCCCDDDDEEE1"].Employer.Name).To(Equal("Acme Corp"))
			Expect(byTransactionID["AAAABBBBCCCCDDDDEEE2"].Employee.Name).To(Equal(loan.UnknownPartyName))
			Expect(byTransactionID["AAAABBBBCCCCDDDDEEE2"].Employer.Name).To(Equal(loan.UnknownPartyName))
		})
	})
})
