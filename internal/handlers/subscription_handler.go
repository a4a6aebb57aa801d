package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"pasartani/internal/services"
)

// SubscriptionHandler handles HTTP requests for farmer subscriptions.
type SubscriptionHandler struct {
	service *services.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
	}
}

// RegisterRoutes registers the subscription routes with the Fiber app.
func (h *SubscriptionHandler) RegisterRoutes(router fiber.Router) {
	subRoutes := router.Group("/subscriptions")
	subRoutes.Get("/", h.HandleGetSubscriptions)
	subRoutes.Get("/:id", h.HandleGetSubscriptionByID)
	subRoutes.Post("/", h.HandleSubscribe)
	subRoutes.Post("/:id/cancel", h.HandleCancel)
	subRoutes.Post("/:id/pause", h.HandlePause)
	subRoutes.Post("/:id/resume", h.HandleResume)
}

// HandleGetSubscriptions lists the calling customer's Active subscriptions.
func (h *SubscriptionHandler) HandleGetSubscriptions(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	if customerID == "" {
		customerID = callerID(c)
	}
	return c.JSON(h.service.ActiveForCustomer(customerID))
}

// HandleGetSubscriptionByID retrieves a single subscription by its ID.
func (h *SubscriptionHandler) HandleGetSubscriptionByID(c *fiber.Ctx) error {
	sub, err := h.service.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, "Could not retrieve subscription", err)
	}
	return c.JSON(sub)
}

// HandleSubscribe creates an Active subscription from the calling customer
// to a farmer.
func (h *SubscriptionHandler) HandleSubscribe(c *fiber.Ctx) error {
	var body struct {
		FarmerID string `json:"farmer_id"`
		Type     string `json:"type"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing subscription request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if body.FarmerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "farmer_id is required",
		})
	}

	sub, err := h.service.Subscribe(callerID(c), body.FarmerID, body.Type)
	if err != nil {
		log.Printf("Error creating subscription: %v", err)
		return errorResponse(c, "Could not create subscription", err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// HandleCancel cancels a subscription.
func (h *SubscriptionHandler) HandleCancel(c *fiber.Ctx) error {
	if err := h.service.Cancel(c.Params("id")); err != nil {
		return errorResponse(c, "Could not cancel subscription", err)
	}
	return c.JSON(fiber.Map{"message": "Subscription cancelled"})
}

// HandlePause pauses a subscription.
func (h *SubscriptionHandler) HandlePause(c *fiber.Ctx) error {
	if err := h.service.Pause(c.Params("id")); err != nil {
		return errorResponse(c, "Could not pause subscription", err)
	}
	return c.JSON(fiber.Map{"message": "Subscription paused"})
}

// HandleResume resumes a paused subscription.
func (h *SubscriptionHandler) HandleResume(c *fiber.Ctx) error {
	if err := h.service.Resume(c.Params("id")); err != nil {
		return errorResponse(c, "Could not resume subscription", err)
	}
	return c.JSON(fiber.Map{"message": "Subscription resumed"})
}
