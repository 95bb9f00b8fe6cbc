package repositories

import (
	"fmt"
	"sort"
	"sync"

	"bookrental/internal/models"
)

// MockRentalRepository is an in-memory implementation of RentalRepository.
// It resolves users and books through the given repositories.
type MockRentalRepository struct {
	users   UserRepository
	books   BookRepository
	rentals map[uint]models.Rental
	nextID  uint
	mu      sync.RWMutex
}

// NewMockRentalRepository creates a new instance of MockRentalRepository.
func NewMockRentalRepository(users UserRepository, books BookRepository) *MockRentalRepository {
	return &MockRentalRepository{
		users:   users,
		books:   books,
		rentals: make(map[uint]models.Rental),
		nextID:  1,
	}
}

// FindCandidate resolves the (user age, minimum age) pair.
func (r *MockRentalRepository) FindCandidate(userID, bookID uint) (*models.RentalCandidate, error) {
	user, err := r.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	book, err := r.books.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	return &models.RentalCandidate{UserAge: user.Age, MinimumAge: book.MinimumAge}, nil
}

// Create stores a rental and assigns its ID.
func (r *MockRentalRepository) Create(rental *models.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rental.ID = r.nextID
	r.nextID++
	r.rentals[rental.ID] = *rental
	return nil
}

// GetByUser returns a rental owned by userID.
func (r *MockRentalRepository) GetByUser(userID, rentalID uint) (*models.Rental, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rental, ok := r.rentals[rentalID]
	if !ok || rental.UserID != userID {
		return nil, fmt.Errorf("rental %d of user %d: %w", rentalID, userID, ErrRecordNotFound)
	}
	return &rental, nil
}

// ListByUser returns the user's rentals joined with their books.
func (r *MockRentalRepository) ListByUser(userID uint) ([]models.RentalDetail, error) {
	r.mu.RLock()
	owned := make([]models.Rental, 0)
	for _, rental := range r.rentals {
		if rental.UserID == userID {
			owned = append(owned, rental)
		}
	}
	r.mu.RUnlock()
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	details := make([]models.RentalDetail, 0, len(owned))
	for _, rental := range owned {
		book, err := r.books.GetByID(rental.BookID)
		if err != nil {
			continue
		}
		details = append(details, models.RentalDetail{
			RentalID:   rental.ID,
			BookID:     book.ID,
			Title:      book.Title,
			Author:     book.Author,
			MinimumAge: book.MinimumAge,
			DueAt:      rental.DueAt,
			DueDate:    rental.DueDate(),
		})
	}
	return details, nil
}

// Delete removes a rental owned by userID.
func (r *MockRentalRepository) Delete(userID, rentalID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rental, ok := r.rentals[rentalID]
	if !ok || rental.UserID != userID {
		return fmt.Errorf("rental %d of user %d: %w", rentalID, userID, ErrNoRowsAffected)
	}
	delete(r.rentals, rentalID)
	return nil
}

// Count returns the number of open rentals.
func (r *MockRentalRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rentals)
}

var _ RentalRepository = (*MockRentalRepository)(nil)
