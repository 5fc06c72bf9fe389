package user

import (
	"errors"
	"time"

	userDatamodel "github.com/salarylink/loan-management/internal/core/datamodel/user"
)

// Roles mirror users.user_type. Employees optionally reference one employer
// through the self-referential employer_id column; an employer never
// references itself.
const (
	TypeEmployee = "employee"
	TypeEmployer = "employer"
	TypeAdmin    = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile,omitempty"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	EmployerID   *int64    `json:"employer_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsEmployee() bool {
	return u.UserType == TypeEmployee
}

func (u *User) IsEmployer() bool {
	return u.UserType == TypeEmployer
}

func (u *User) IsAdmin() bool {
	return u.UserType == TypeAdmin
}

var ErrNotFound = errors.New("user not found")

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Mobile:       u.Mobile,
		PasswordHash: u.PasswordHash,
		UserType:     u.UserType,
		EmployerID:   u.EmployerID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Mobile:       u.Mobile,
		PasswordHash: u.PasswordHash,
		UserType:     u.UserType,
		EmployerID:   u.EmployerID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
