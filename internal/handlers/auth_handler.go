package handlers

import (
	"bookrental/internal/middleware"
	"bookrental/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for accounts and sessions.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the account routes under /user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Delete("/", middleware.AuthRequired(h.authService), h.HandleLogout)
}

// HandleRegister creates an account and returns its first token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	cmd, err := services.NewRegisterCommand(req.Email, req.Password, req.Age.String())
	if err != nil {
		return respondError(c, err)
	}

	reg, err := h.authService.Register(cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Welcome! Registration completed",
		"token":   reg.Token,
	})
}

// HandleLogin issues a new token for valid credentials.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	cmd, err := services.NewLoginCommand(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.authService.Login(cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Welcome",
		"token":   token,
	})
}

// HandleLogout ends the session the request was authenticated with.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(middleware.SessionFrom(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}
