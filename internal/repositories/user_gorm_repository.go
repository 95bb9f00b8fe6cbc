package repositories

import (
	"errors"
	"fmt"
	"strings"

	"bookrental/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
// The *gorm.DB must be opened with TranslateError enabled so unique
// violations surface as gorm.ErrDuplicatedKey.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user and fills in its generated ID.
func (r *GORMUserRepository) Create(user *models.User) error {
	res := r.db.Create(user)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to create user: %w", ErrNoRowsAffected)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// CreateToken stores a session token for a user.
func (r *GORMUserRepository) CreateToken(token *models.UserToken) error {
	res := r.db.Create(token)
	if res.Error != nil {
		return fmt.Errorf("failed to store token for user %d: %w", token.UserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to store token for user %d: %w", token.UserID, ErrNoRowsAffected)
	}
	return nil
}

// TokenExists reports whether the (user, token) session is still active.
func (r *GORMUserRepository) TokenExists(userID uint, token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up token for user %d: %w", userID, err)
	}
	return count > 0, nil
}

// DeleteToken removes exactly the matching session; other tokens of the
// same user are left alone.
func (r *GORMUserRepository) DeleteToken(userID uint, token string) error {
	res := r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&models.UserToken{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete token for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("token for user %d: %w", userID, ErrNoRowsAffected)
	}
	return nil
}

// WithTx runs fn inside a GORM transaction. GORM rolls back on error or
// panic and commits otherwise.
func (r *GORMUserRepository) WithTx(fn func(repo UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMUserRepository(tx))
	})
}

// isDuplicateKey recognizes unique violations, including drivers that do not
// implement gorm's error translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

var _ UserRepository = (*GORMUserRepository)(nil)
