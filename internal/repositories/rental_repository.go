package repositories

import "bookrental/internal/models"

// RentalRepository defines data access for open rentals.
type RentalRepository interface {
	// FindCandidate resolves the renter's age and the book's minimum age.
	FindCandidate(userID, bookID uint) (*models.RentalCandidate, error)
	Create(rental *models.Rental) error
	GetByUser(userID, rentalID uint) (*models.Rental, error)
	ListByUser(userID uint) ([]models.RentalDetail, error)
	Delete(userID, rentalID uint) error
}
