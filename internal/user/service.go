package user

import (
	"fmt"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetByEmployerID(employerID int64) ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// ListByEmployer returns the employer's roster. An employer with no employees
// yields an empty slice, not an error.
func (s *Service) ListByEmployer(employerID int64) ([]*User, error) {
	users, err := s.repo.GetByEmployerID(employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by employer: %w", err)
	}
	if users == nil {
		users = []*User{}
	}
	return users, nil
}
