package handlers

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasartani/internal/models"
	"pasartani/internal/services"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

type registerRequest struct {
	Role     string `json:"role" validate:"required,oneof=Customer Farmer"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Location string `json:"location" validate:"required"`
}

// HandleRegister registers a new customer or farmer.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		var fields []string
		for _, fieldErr := range err.(validator.ValidationErrors) {
			fields = append(fields, fieldErr.Field())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed on fields: " + strings.Join(fields, ", "),
		})
	}

	switch models.Role(req.Role) {
	case models.RoleFarmer:
		farmer, err := h.authService.RegisterFarmer(req.Name, req.Email, req.Password, req.Location)
		if err != nil {
			log.Printf("Error registering farmer: %v", err)
			return errorResponse(c, "Could not register farmer", err)
		}
		return c.Status(fiber.StatusCreated).JSON(farmer)
	default:
		customer, err := h.authService.RegisterCustomer(req.Name, req.Email, req.Password, req.Location)
		if err != nil {
			log.Printf("Error registering customer: %v", err)
			return errorResponse(c, "Could not register customer", err)
		}
		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

type loginRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and returns a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.UserID == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "user_id and password are required",
		})
	}

	token, err := h.authService.Login(req.UserID, req.Password)
	if err != nil {
		log.Printf("Login failed for user %s: %v", req.UserID, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	}
	return c.JSON(fiber.Map{"token": token})
}
