package services

import (
	"errors"
	"time"
	"tokoku/internal/config"
	"tokoku/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingCredentials    = errors.New("missing credentials")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrMissingToken          = errors.New("missing token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrNotAdmin              = errors.New("token does not assert an admin identity")
	ErrAccountNotFound       = errors.New("admin account not found")
	ErrAccountExists         = errors.New("admin account already exists")
	ErrLastAdminProtected    = errors.New("cannot remove the last active admin account")
)

// TokenClaims is the verified content of an admin session token.
// Legacy marks tokens minted before the account-id claim existed; for
// those the identity was re-resolved from the account store at
// verification time rather than read from the token itself.
type TokenClaims struct {
	AccountID uint
	Username  string
	Legacy    bool
}

type AuthService struct {
	cfg *config.Config

	// now is swappable so expiry boundaries can be tested
	now func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg, now: time.Now}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Authenticate verifies admin credentials and returns the acting account.
// Two modes are supported: username+password against an active account,
// and the legacy password-only mode against the store-wide secret. In
// legacy mode the earliest-created active account becomes the acting
// identity; if that account has no role yet it is defaulted to
// super_admin and persisted.
func (s *AuthService) Authenticate(username, password string) (*models.AdminAccount, error) {
	if password == "" {
		return nil, ErrMissingCredentials
	}

	if username == "" {
		return s.authenticateLegacy(password)
	}

	var account models.AdminAccount
	err := models.DB.Where("username = ? AND is_active = ?", username, true).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.stampLastLogin(&account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (s *AuthService) authenticateLegacy(password string) (*models.AdminAccount, error) {
	settings, err := models.GetStoreSettings(models.DB)
	if err != nil {
		return nil, err
	}

	if settings.LegacyPasswordHash == "" || !s.VerifyPassword(settings.LegacyPasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	account, err := s.earliestActiveAccount()
	if err != nil {
		return nil, err
	}

	if account.Role == "" {
		account.Role = models.RoleSuperAdmin
		if err := models.DB.Model(account).Update("role", account.Role).Error; err != nil {
			return nil, err
		}
	}

	if err := s.stampLastLogin(account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *AuthService) stampLastLogin(account *models.AdminAccount) error {
	loginAt := s.now()
	account.LastLoginAt = &loginAt
	return models.DB.Model(account).Update("last_login_at", loginAt).Error
}

// earliestActiveAccount resolves the acting identity for the legacy
// login path and for old-format tokens that carry no account id.
func (s *AuthService) earliestActiveAccount() (*models.AdminAccount, error) {
	var account models.AdminAccount
	err := models.DB.Where("is_active = ?", true).Order("created_at asc, id asc").First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// IssueToken mints a signed session token for the account. Tokens are
// stateless: validity is re-derived from the signature and expiry on
// every request, never from a server-side session table.
func (s *AuthService) IssueToken(account *models.AdminAccount) (string, time.Time, error) {
	expiresIn, err := time.ParseDuration(s.cfg.JWT.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}

	now := s.now()
	expiresAt := now.Add(expiresIn)

	claims := jwt.MapClaims{
		"admin_id": account.ID,
		"username": account.Username,
		"is_admin": true,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
		"iss":      s.cfg.JWT.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret()))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyToken checks the signature, expiry and admin assertion of a raw
// token. Old-format tokens without an admin_id claim are still accepted:
// the acting account is re-resolved as the earliest-created active one
// and the result is flagged Legacy. This keeps pre-rollout sessions
// working at the cost of weaker identity binding.
func (s *AuthService) VerifyToken(raw string) (*TokenClaims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(raw, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret()), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidOrExpiredToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidOrExpiredToken
	}

	if isAdmin, _ := mapClaims["is_admin"].(bool); !isAdmin {
		return nil, ErrNotAdmin
	}

	claims := &TokenClaims{}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}

	if id, ok := mapClaims["admin_id"].(float64); ok && id > 0 {
		claims.AccountID = uint(id)
		return claims, nil
	}

	// Old-format token: structurally valid but missing the account id
	account, err := s.earliestActiveAccount()
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	claims.AccountID = account.ID
	if claims.Username == "" {
		claims.Username = account.Username
	}
	claims.Legacy = true
	return claims, nil
}

// AccountFromClaims loads the account a verified token refers to,
// rejecting identities that were deleted or deactivated after issuance.
func (s *AuthService) AccountFromClaims(claims *TokenClaims) (*models.AdminAccount, error) {
	var account models.AdminAccount
	err := models.DB.First(&account, claims.AccountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (s *AuthService) jwtSecret() string {
	secret := s.cfg.JWT.Secret
	if secret == "" {
		secret = "tokoku-default-secret-change-in-production"
	}
	return secret
}

// Bootstrap creates the default super admin when the accounts table is
// empty and seeds the legacy login secret once if configured.
func (s *AuthService) Bootstrap() error {
	var count int64
	if err := models.DB.Model(&models.AdminAccount{}).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 && s.cfg.DefaultAdmin.Username != "" {
		hash, err := s.HashPassword(s.cfg.DefaultAdmin.Password)
		if err != nil {
			return err
		}
		account := &models.AdminAccount{
			Username:     s.cfg.DefaultAdmin.Username,
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			IsActive:     true,
		}
		if err := models.DB.Create(account).Error; err != nil {
			return err
		}
	}

	settings, err := models.GetStoreSettings(models.DB)
	if err != nil {
		return err
	}
	if settings.StoreName == "" {
		settings.StoreName = s.cfg.Store.Name
		settings.WhatsAppNumber = s.cfg.Store.WhatsAppNumber
		if s.cfg.Store.CurrencyCode != "" {
			settings.CurrencyCode = s.cfg.Store.CurrencyCode
		}
	}
	if settings.LegacyPasswordHash == "" && s.cfg.Security.LegacyAdminPassword != "" {
		hash, err := s.HashPassword(s.cfg.Security.LegacyAdminPassword)
		if err != nil {
			return err
		}
		settings.LegacyPasswordHash = hash
	}
	return models.SaveStoreSettings(models.DB, settings)
}
