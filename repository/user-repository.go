package repository

import (
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Permission string

const (
	PermissionAdmin Permission = "admin"
)

type User struct {
	Id          int            `gorm:"primaryKey"`
	FirstName   string         `gorm:"not null"`
	LastName    string         `gorm:"not null"`
	Email       string         `gorm:"not null;uniqueIndex"`
	Phone       string         `gorm:"null"`
	Permissions pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
}

func (u *User) HasPermission(permission Permission) bool {
	for _, p := range u.Permissions {
		if Permission(p) == permission {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(PermissionAdmin)
}

func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetUserById(userId int) (*User, error) {
	var user User
	result := r.DB.First(&user, userId)
	if result.Error != nil {
		return nil, fmt.Errorf("user with id %d not found", userId)
	}
	return &user, nil
}

func (r *UserRepository) GetUsersByIds(userIds []int) ([]*User, error) {
	users := make([]*User, 0)
	if len(userIds) == 0 {
		return users, nil
	}
	result := r.DB.Find(&users, userIds)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find users: %v", result.Error)
	}
	return users, nil
}

func (r *UserRepository) GetAllUsers() ([]*User, error) {
	users := make([]*User, 0)
	result := r.DB.Order("last_name ASC, first_name ASC").Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find users: %v", result.Error)
	}
	return users, nil
}

func (r *UserRepository) SaveUser(user *User) (*User, error) {
	result := r.DB.Save(user)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save user: %v", result.Error)
	}
	return user, nil
}

func (r *UserRepository) DeleteUser(userId int) error {
	return r.DB.Delete(&User{}, userId).Error
}
