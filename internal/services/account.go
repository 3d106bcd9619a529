package services

import (
	"errors"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"gorm.io/gorm"
)

// activeAccountGuard is the conditional clause that closes the
// read-then-write race on the "last active admin" invariant: the write
// only lands when at least one other active account exists. The count
// goes through a derived table because MySQL rejects a subquery that
// reads the table an UPDATE or DELETE is modifying (error 1093).
const activeAccountGuard = "id = ? AND is_active = ? AND (SELECT cnt FROM (SELECT COUNT(*) AS cnt FROM admin_accounts WHERE is_active = ?) x) > 1"

type AccountService struct {
	authService *AuthService
}

func NewAccountService(cfg *config.Config) *AccountService {
	return &AccountService{
		authService: NewAuthService(cfg),
	}
}

// GetAccounts returns all admin accounts
func (s *AccountService) GetAccounts() ([]models.AdminAccount, error) {
	var accounts []models.AdminAccount
	if err := models.DB.Order("created_at asc").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetAccount returns a specific account by ID
func (s *AccountService) GetAccount(id uint) (*models.AdminAccount, error) {
	var account models.AdminAccount
	if err := models.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount creates a new admin account
func (s *AccountService) CreateAccount(username, password, email, role string) (*models.AdminAccount, error) {
	if len(username) < 3 || len(username) > 50 {
		return nil, errors.New("username must be between 3 and 50 characters")
	}
	if role != models.RoleSuperAdmin && role != models.RoleAdmin {
		return nil, errors.New("role must be super_admin or admin")
	}

	var existing models.AdminAccount
	if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrAccountExists
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.AdminAccount{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Role:         role,
		IsActive:     true,
	}

	if err := models.DB.Create(account).Error; err != nil {
		return nil, err
	}

	return account, nil
}

// UpdateAccount updates username, email and role (not the password)
func (s *AccountService) UpdateAccount(id uint, username, email, role string) (*models.AdminAccount, error) {
	account, err := s.GetAccount(id)
	if err != nil {
		return nil, err
	}

	if username != "" && username != account.Username {
		if len(username) < 3 || len(username) > 50 {
			return nil, errors.New("username must be between 3 and 50 characters")
		}
		var existing models.AdminAccount
		if err := models.DB.Where("username = ? AND id != ?", username, id).First(&existing).Error; err == nil {
			return nil, ErrAccountExists
		}
		account.Username = username
	}

	if email != "" {
		account.Email = email
	}
	if role != "" {
		if role != models.RoleSuperAdmin && role != models.RoleAdmin {
			return nil, errors.New("role must be super_admin or admin")
		}
		account.Role = role
	}

	if err := models.DB.Save(account).Error; err != nil {
		return nil, err
	}

	return account, nil
}

// UpdatePassword updates an account password
func (s *AccountService) UpdatePassword(id uint, newPassword string) error {
	account, err := s.GetAccount(id)
	if err != nil {
		return err
	}

	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return models.DB.Model(account).Update("password_hash", hash).Error
}

// ActivateAccount re-enables a deactivated account
func (s *AccountService) ActivateAccount(id uint) (*models.AdminAccount, error) {
	account, err := s.GetAccount(id)
	if err != nil {
		return nil, err
	}

	if !account.IsActive {
		account.IsActive = true
		if err := models.DB.Model(account).Update("is_active", true).Error; err != nil {
			return nil, err
		}
	}
	return account, nil
}

// DeactivateAccount disables an account unless it is the last active one
func (s *AccountService) DeactivateAccount(id uint) (*models.AdminAccount, error) {
	account, err := s.GetAccount(id)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return account, nil
	}

	res := models.DB.Model(&models.AdminAccount{}).
		Where(activeAccountGuard, id, true, true).
		Update("is_active", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrLastAdminProtected
	}

	account.IsActive = false
	return account, nil
}

// DeleteAccount removes an account unless it is the last active one
func (s *AccountService) DeleteAccount(id uint) error {
	account, err := s.GetAccount(id)
	if err != nil {
		return err
	}

	if !account.IsActive {
		return models.DB.Delete(account).Error
	}

	res := models.DB.Where(activeAccountGuard, id, true, true).Delete(&models.AdminAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLastAdminProtected
	}
	return nil
}
