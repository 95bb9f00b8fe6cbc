package services

import (
	"bookrental/internal/models"
	"bookrental/internal/repositories"
)

// CatalogService serves paginated reads of the book catalog.
type CatalogService struct {
	repo repositories.BookRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.BookRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// ListBooks returns one page of books.
func (s *CatalogService) ListBooks(cmd ListBooksCommand) ([]models.Book, error) {
	books, err := s.repo.List(cmd.Offset, cmd.Limit)
	if err != nil {
		return nil, persistenceError("failed to list books", err)
	}
	return books, nil
}
