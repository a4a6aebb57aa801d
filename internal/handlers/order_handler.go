package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"pasartani/internal/models"
	"pasartani/internal/services"
)

// OrderHandler handles HTTP requests for carts and orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart and order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddToCart)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveFromCart)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/deliver", h.HandleMarkDelivered)
}

// callerID returns the authenticated user id placed in the context by the
// JWT middleware.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// HandleGetCart returns the calling customer's cart.
func (h *OrderHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.Cart(callerID(c))
	if err != nil {
		return errorResponse(c, "Could not retrieve cart", err)
	}
	return c.JSON(cart)
}

// HandleAddToCart merges a product line into the calling customer's cart.
func (h *OrderHandler) HandleAddToCart(c *fiber.Ctx) error {
	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.AddToCart(callerID(c), body.ProductID, body.Quantity); err != nil {
		log.Printf("Error adding product %s to cart: %v", body.ProductID, err)
		return errorResponse(c, "Could not add product to cart", err)
	}
	cart, err := h.service.Cart(callerID(c))
	if err != nil {
		return errorResponse(c, "Could not retrieve cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cart)
}

// HandleRemoveFromCart drops a product line from the calling customer's cart.
func (h *OrderHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	if err := h.service.RemoveFromCart(callerID(c), c.Params("productId")); err != nil {
		return errorResponse(c, "Could not remove product from cart", err)
	}
	return c.JSON(fiber.Map{"message": "Product removed from cart"})
}

// HandleGetOrders lists orders: the caller's own by default, a given
// customer's with ?customer_id=, or a farmer's with ?farmer_id=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	if farmerID := c.Query("farmer_id"); farmerID != "" {
		orders, err := h.service.OrdersForFarmer(farmerID)
		if err != nil {
			return errorResponse(c, "Could not retrieve orders", err)
		}
		return c.JSON(orders)
	}

	customerID := c.Query("customer_id")
	if customerID == "" {
		customerID = callerID(c)
	}
	return c.JSON(h.service.OrdersForCustomer(customerID))
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		return errorResponse(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder places an order. With an items array in the body, those
// lines are ordered directly; with an empty body the customer's stored cart
// is submitted.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var body struct {
		Items []models.CartItem `json:"items"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			log.Printf("Error parsing order request body: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
				"error":   err.Error(),
			})
		}
	}

	var (
		order *models.Order
		err   error
	)
	if len(body.Items) > 0 {
		order, err = h.service.PlaceOrder(callerID(c), body.Items)
	} else {
		order, err = h.service.PlaceOrderFromCart(callerID(c))
	}
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return errorResponse(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleCancelOrder cancels an order and refunds its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if !h.service.CancelOrder(orderID) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Order " + orderID + " cannot be cancelled",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Order " + orderID + " cancelled successfully",
	})
}

// HandleMarkDelivered completes a dispatched order.
func (h *OrderHandler) HandleMarkDelivered(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.MarkDelivered(orderID); err != nil {
		log.Printf("Error marking order %s delivered: %v", orderID, err)
		return errorResponse(c, "Could not mark order delivered", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order " + orderID + " marked as delivered",
	})
}
