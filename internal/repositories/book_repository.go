package repositories

import "bookrental/internal/models"

// BookRepository defines read access to the catalog. Create exists only for
// seeding, and GetByID backs the in-memory rental store.
type BookRepository interface {
	List(offset, limit int) ([]models.Book, error)
	GetByID(id uint) (*models.Book, error)
	Count() (int64, error)
	Create(book *models.Book) error
}
