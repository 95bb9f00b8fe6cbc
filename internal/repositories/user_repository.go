package repositories

import "bookrental/internal/models"

// UserRepository defines data access for users and their session tokens.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	// GetByID backs the in-memory rental store, which resolves users
	// itself instead of joining tables.
	GetByID(id uint) (*models.User, error)

	CreateToken(token *models.UserToken) error
	TokenExists(userID uint, token string) (bool, error)
	DeleteToken(userID uint, token string) error

	// WithTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithTx(fn func(repo UserRepository) error) error
}
