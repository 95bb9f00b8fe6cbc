package repositories

import (
	"fmt"
	"sort"
	"sync"

	"bookrental/internal/models"
)

// MockBookRepository is an in-memory implementation of BookRepository.
type MockBookRepository struct {
	books  map[uint]models.Book
	nextID uint
	mu     sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books:  make(map[uint]models.Book),
		nextID: 1,
	}
}

// List returns one page of books ordered by ID.
func (r *MockBookRepository) List(offset, limit int) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []models.Book{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// GetByID returns a book by its ID.
func (r *MockBookRepository) GetByID(id uint) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %d: %w", id, ErrRecordNotFound)
	}
	return &b, nil
}

// Count returns the number of books.
func (r *MockBookRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.books)), nil
}

// Create adds a new book, assigning an ID when none is set.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == 0 {
		book.ID = r.nextID
	}
	if book.ID >= r.nextID {
		r.nextID = book.ID + 1
	}
	r.books[book.ID] = *book
	return nil
}

var _ BookRepository = (*MockBookRepository)(nil)
