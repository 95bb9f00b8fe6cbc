package handlers

import (
	"bookrental/internal/middleware"
	"bookrental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RentalHandler handles HTTP requests for the catalog and rentals.
type RentalHandler struct {
	catalog *services.CatalogService
	rentals *services.RentalService
	auth    *services.AuthService
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(catalog *services.CatalogService, rentals *services.RentalService, auth *services.AuthService) *RentalHandler {
	return &RentalHandler{
		catalog: catalog,
		rentals: rentals,
		auth:    auth,
	}
}

// RegisterRoutes registers the book routes under /books.
func (h *RentalHandler) RegisterRoutes(router fiber.Router) {
	requireAuth := middleware.AuthRequired(h.auth)

	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleListBooks)
	bookRoutes.Post("/rental", requireAuth, h.HandleCheckOut)
	bookRoutes.Get("/my_rental", requireAuth, h.HandleListRentals)
	bookRoutes.Delete("/return_book", requireAuth, h.HandleCheckIn)
}

// HandleListBooks returns one page of the catalog.
func (h *RentalHandler) HandleListBooks(c *fiber.Ctx) error {
	cmd, err := services.NewListBooksCommand(c.Query("offset"), c.Query("limit"))
	if err != nil {
		return respondError(c, err)
	}

	books, err := h.catalog.ListBooks(cmd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   books,
		"cnt":     len(books),
	})
}

// HandleCheckOut rents a book to the authenticated user.
func (h *RentalHandler) HandleCheckOut(c *fiber.Ctx) error {
	var req checkOutRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	cmd, err := services.NewCheckOutCommand(middleware.SessionFrom(c).UserID, req.BookID.String())
	if err != nil {
		return respondError(c, err)
	}

	rental, err := h.rentals.CheckOut(cmd)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Book rented",
		"rental_id":  rental.ID,
		"limit_date": rental.DueDate(),
	})
}

// HandleListRentals lists the authenticated user's open rentals.
func (h *RentalHandler) HandleListRentals(c *fiber.Ctx) error {
	details, err := h.rentals.ListRentals(middleware.SessionFrom(c).UserID)
	if err != nil {
		return respondError(c, err)
	}
	if len(details) == 0 {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "No rented books",
			"items":   details,
			"cnt":     0,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"items":   details,
		"cnt":     len(details),
	})
}

// HandleCheckIn returns a rented book, provided the exact fee is paid.
func (h *RentalHandler) HandleCheckIn(c *fiber.Ctx) error {
	var req checkInRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	cmd, err := services.NewCheckInCommand(middleware.SessionFrom(c).UserID, req.RentalID.String(), req.Charge.String())
	if err != nil {
		return respondError(c, err)
	}

	receipt, err := h.rentals.CheckIn(cmd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Book returned",
		"receipt": receipt,
	})
}
