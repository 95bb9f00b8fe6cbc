package repositories

import (
	"errors"
	"fmt"

	"bookrental/internal/models"

	"gorm.io/gorm"
)

// GORMRentalRepository is a GORM implementation of RentalRepository.
type GORMRentalRepository struct {
	db *gorm.DB
}

// NewGORMRentalRepository creates a new instance of GORMRentalRepository.
func NewGORMRentalRepository(db *gorm.DB) *GORMRentalRepository {
	return &GORMRentalRepository{
		db: db,
	}
}

// FindCandidate looks up the user's age and the book's minimum age in one
// query. No row means either the user or the book does not exist.
func (r *GORMRentalRepository) FindCandidate(userID, bookID uint) (*models.RentalCandidate, error) {
	var candidate models.RentalCandidate
	res := r.db.Raw(
		`SELECT u.age AS user_age, b.limit_age AS minimum_age
		   FROM book_user AS u, book AS b
		  WHERE u.user_id = ? AND b.id = ?`,
		userID, bookID,
	).Scan(&candidate)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to resolve user %d and book %d: %w", userID, bookID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user %d or book %d: %w", userID, bookID, ErrRecordNotFound)
	}
	return &candidate, nil
}

// Create inserts a rental and fills in its generated ID.
func (r *GORMRentalRepository) Create(rental *models.Rental) error {
	res := r.db.Create(rental)
	if res.Error != nil {
		return fmt.Errorf("failed to create rental: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to create rental: %w", ErrNoRowsAffected)
	}
	return nil
}

// GetByUser retrieves a rental owned by userID.
func (r *GORMRentalRepository) GetByUser(userID, rentalID uint) (*models.Rental, error) {
	var rental models.Rental
	err := r.db.First(&rental, "user_id = ? AND rental_id = ?", userID, rentalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rental %d of user %d: %w", rentalID, userID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get rental %d: %w", rentalID, err)
	}
	return &rental, nil
}

// ListByUser returns the user's open rentals joined with their books.
func (r *GORMRentalRepository) ListByUser(userID uint) ([]models.RentalDetail, error) {
	details := []models.RentalDetail{}
	err := r.db.Table("book_rental AS r").
		Select("r.rental_id, r.book_id, b.title, b.author, b.limit_age, r.limit_date").
		Joins("JOIN book AS b ON r.book_id = b.id").
		Where("r.user_id = ?", userID).
		Order("r.rental_id").
		Scan(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals of user %d: %w", userID, err)
	}
	for i := range details {
		details[i].DueDate = details[i].DueAt.Format(models.DueDateLayout)
	}
	return details, nil
}

// Delete removes a rental. Zero affected rows means another request already
// returned it.
func (r *GORMRentalRepository) Delete(userID, rentalID uint) error {
	res := r.db.Where("user_id = ? AND rental_id = ?", userID, rentalID).Delete(&models.Rental{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete rental %d: %w", rentalID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rental %d of user %d: %w", rentalID, userID, ErrNoRowsAffected)
	}
	return nil
}

var _ RentalRepository = (*GORMRentalRepository)(nil)
