package services

import (
	"errors"
	"fmt"

	"tourism-backend/models"

	"gorm.io/gorm"
)

// RoleService is the identity/role gateway: it answers role-membership
// questions and grants/removes named roles. Every write commits on its own
// DB handle, independent of any transaction a caller may be running. The
// admin flows rely on that: a rolled-back record transaction does not undo
// a role change made through this service.
type RoleService struct {
	DB *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{DB: db}
}

func (s *RoleService) RoleExists(name string) (bool, error) {
	var count int64
	if err := s.DB.Model(&models.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check role %q: %w", name, err)
	}
	return count > 0, nil
}

func (s *RoleService) HasRole(userID uint, name string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.name = ?", userID, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check membership in %q: %w", name, err)
	}
	return count > 0, nil
}

func (s *RoleService) AssignRole(userID uint, name string) error {
	var role models.Role
	if err := s.DB.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("role %q does not exist", name)
		}
		return fmt.Errorf("load role %q: %w", name, err)
	}

	member := models.UserRole{UserID: userID, RoleID: role.ID}
	if err := s.DB.Create(&member).Error; err != nil {
		return fmt.Errorf("assign role %q to user %d: %w", name, userID, err)
	}
	return nil
}

func (s *RoleService) RemoveRole(userID uint, name string) error {
	var role models.Role
	if err := s.DB.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("role %q does not exist", name)
		}
		return fmt.Errorf("load role %q: %w", name, err)
	}

	result := s.DB.Where("user_id = ? AND role_id = ?", userID, role.ID).
		Delete(&models.UserRole{})
	if result.Error != nil {
		return fmt.Errorf("remove role %q from user %d: %w", name, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d does not hold role %q", userID, name)
	}
	return nil
}

// RolesForUser returns the role names held by a user, for token claims.
func (s *RoleService) RolesForUser(userID uint) ([]string, error) {
	var names []string
	err := s.DB.Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("load roles for user %d: %w", userID, err)
	}
	return names, nil
}
