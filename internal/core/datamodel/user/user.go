package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Mobile       string    `gorm:"column:mobile"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	UserType     string    `gorm:"column:user_type;default:employee"`
	EmployerID   *int64    `gorm:"column:employer_id"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
