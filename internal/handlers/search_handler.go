package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"pasartani/internal/services"
)

// SearchHandler handles HTTP requests for catalog search and filtering.
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// RegisterRoutes registers the search routes with the Fiber app.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	searchRoutes := router.Group("/search")
	searchRoutes.Get("/", h.HandleSearch)
	searchRoutes.Get("/season", h.HandleBySeason)
	searchRoutes.Get("/proximity", h.HandleByProximity)
	searchRoutes.Get("/category", h.HandleByCategory)
}

// HandleSearch matches products by name, description, or id. A blank query
// returns the full catalog.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	return c.JSON(h.service.BySearchTerm(c.Query("q")))
}

// HandleBySeason lists in-season products, most recently harvested first.
// The reference date defaults to today and may be overridden with ?date=.
func (h *SearchHandler) HandleBySeason(c *fiber.Ctx) error {
	ref := time.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateParam, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "date must be in YYYY-MM-DD format",
				"error":   err.Error(),
			})
		}
		ref = parsed
	}
	return c.JSON(h.service.BySeason(ref))
}

// HandleByProximity lists products of farmers near an origin, nearest first.
func (h *SearchHandler) HandleByProximity(c *fiber.Ctx) error {
	origin := c.Query("origin")
	if origin == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "origin query parameter is required (latitude,longitude)",
		})
	}
	radius, err := strconv.ParseFloat(c.Query("radius", "10"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "radius must be a number",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.service.ByProximity(origin, radius))
}

// HandleByCategory matches products by category term, organic listings first.
func (h *SearchHandler) HandleByCategory(c *fiber.Ctx) error {
	return c.JSON(h.service.ByCategory(c.Query("term")))
}
