package postgres

import (
	"github.com/salarylink/loan-management/internal/user"

	userDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByEmployerID(employerID int64) ([]*user.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("employer_id = ?", employerID).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(users), nil
}
