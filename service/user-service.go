package service

import (
	"fmt"

	"scoutroster/auth"
	"scoutroster/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type UserService struct {
	userRepository *repository.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userRepository: repository.NewUserRepository(db),
	}
}

func (s *UserService) GetUserById(userId int) (*repository.User, error) {
	return s.userRepository.GetUserById(userId)
}

func (s *UserService) GetAllUsers() ([]*repository.User, error) {
	return s.userRepository.GetAllUsers()
}

func (s *UserService) SaveUser(user *repository.User) (*repository.User, error) {
	return s.userRepository.SaveUser(user)
}

func (s *UserService) UpdateUser(userId int, update *repository.User) (*repository.User, error) {
	user, err := s.userRepository.GetUserById(userId)
	if err != nil {
		return nil, err
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.Email != "" {
		user.Email = update.Email
	}
	user.Phone = update.Phone
	return s.userRepository.SaveUser(user)
}

func (s *UserService) DeleteUser(userId int) error {
	return s.userRepository.DeleteUser(userId)
}

func (s *UserService) ChangePermissions(userId int, permissions []repository.Permission) (*repository.User, error) {
	user, err := s.userRepository.GetUserById(userId)
	if err != nil {
		return nil, err
	}
	user.Permissions = make([]string, 0, len(permissions))
	for _, permission := range permissions {
		user.Permissions = append(user.Permissions, string(permission))
	}
	return s.userRepository.SaveUser(user)
}

func (s *UserService) GetUserFromAuthCookie(c *gin.Context) (*repository.User, error) {
	authCookie, err := c.Cookie("auth")
	if err != nil {
		return nil, fmt.Errorf("no auth cookie present")
	}
	return s.GetUserFromToken(authCookie)
}

func (s *UserService) GetUserFromToken(tokenString string) (*repository.User, error) {
	token, err := auth.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims := &auth.Claims{}
	if token.Valid {
		claims.FromJWTClaims(token.Claims)
		if err := claims.Valid(); err != nil {
			return nil, err
		}
		return s.GetUserById(claims.UserId)
	}
	return nil, jwt.ErrInvalidKey
}
