package repositories

import (
	"fmt"
	"sync"
	"time"

	"bookrental/internal/models"
)

type mockUserState struct {
	users       map[uint]models.User
	tokens      []models.UserToken
	nextUserID  uint
	nextTokenID uint
}

func (s *mockUserState) clone() *mockUserState {
	c := &mockUserState{
		users:       make(map[uint]models.User, len(s.users)),
		tokens:      make([]models.UserToken, len(s.tokens)),
		nextUserID:  s.nextUserID,
		nextTokenID: s.nextTokenID,
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	copy(c.tokens, s.tokens)
	return c
}

// MockUserRepository is an in-memory implementation of UserRepository.
// Transactions work on a copy of the state that replaces the original on
// success; they are serialized against each other but not against
// non-transactional writes.
type MockUserRepository struct {
	state *mockUserState
	mu    sync.RWMutex
	txMu  sync.Mutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		state: &mockUserState{
			users:       make(map[uint]models.User),
			nextUserID:  1,
			nextTokenID: 1,
		},
	}
}

// Create adds a new user, enforcing email uniqueness. Emails are compared
// exactly, like the unique index.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.state.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicateKey)
		}
	}
	user.ID = r.state.nextUserID
	r.state.nextUserID++
	user.CreatedAt = time.Now()
	r.state.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrRecordNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.state.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, ErrRecordNotFound)
	}
	return &u, nil
}

// CreateToken stores a session token.
func (r *MockUserRepository) CreateToken(token *models.UserToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = r.state.nextTokenID
	r.state.nextTokenID++
	token.CreatedAt = time.Now()
	r.state.tokens = append(r.state.tokens, *token)
	return nil
}

// TokenExists reports whether the session is active.
func (r *MockUserRepository) TokenExists(userID uint, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.state.tokens {
		if t.UserID == userID && t.Token == token {
			return true, nil
		}
	}
	return false, nil
}

// DeleteToken removes every row matching (userID, token).
func (r *MockUserRepository) DeleteToken(userID uint, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.state.tokens[:0]
	removed := 0
	for _, t := range r.state.tokens {
		if t.UserID == userID && t.Token == token {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.state.tokens = kept
	if removed == 0 {
		return fmt.Errorf("token for user %d: %w", userID, ErrNoRowsAffected)
	}
	return nil
}

// WithTx runs fn against a scratch copy and publishes it only if fn succeeds.
func (r *MockUserRepository) WithTx(fn func(repo UserRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	scratch := &MockUserRepository{state: r.state.clone()}
	r.mu.RUnlock()

	if err := fn(scratch); err != nil {
		return err
	}

	r.mu.Lock()
	r.state = scratch.state
	r.mu.Unlock()
	return nil
}

// UserCount returns the number of stored users.
func (r *MockUserRepository) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.state.users)
}

// TokenCount returns the number of stored session tokens.
func (r *MockUserRepository) TokenCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.state.tokens)
}

var _ UserRepository = (*MockUserRepository)(nil)
