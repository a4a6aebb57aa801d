package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"pasartani/internal/models"
	"pasartani/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Patch("/:id/quantity", h.HandleAdjustQuantity)
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	HarvestDate string  `json:"harvest_date" validate:"required"`
	FarmerID    string  `json:"farmer_id" validate:"required"`
}

// HandleGetProducts lists the whole catalog, or one farmer's products when
// the farmer_id query parameter is set.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	if farmerID := c.Query("farmer_id"); farmerID != "" {
		products, err := h.catalog.ListByFarmer(farmerID)
		if err != nil {
			return errorResponse(c, "Could not retrieve products", err)
		}
		return c.JSON(products)
	}
	return c.JSON(h.catalog.ListAll())
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Params("id"))
	if err != nil {
		return errorResponse(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct lists a new product for a farmer.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, err := h.parseProductRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product payload",
			"error":   err.Error(),
		})
	}

	harvestDate, err := time.ParseInLocation("2006-01-02", req.HarvestDate, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "harvest_date must be in YYYY-MM-DD format",
			"error":   err.Error(),
		})
	}

	product, err := models.NewProduct(h.catalog.NextProductID(), req.Name, req.Description,
		req.Price, req.Quantity, harvestDate, req.FarmerID)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return errorResponse(c, "Could not create product", err)
	}

	h.catalog.AddOrUpdateProduct(*product)
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces an existing product's fields, keeping its id.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.catalog.GetProduct(id); err != nil {
		return errorResponse(c, "Could not update product", err)
	}

	req, err := h.parseProductRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product payload",
			"error":   err.Error(),
		})
	}
	harvestDate, err := time.ParseInLocation("2006-01-02", req.HarvestDate, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "harvest_date must be in YYYY-MM-DD format",
			"error":   err.Error(),
		})
	}

	product, err := models.NewProduct(id, req.Name, req.Description,
		req.Price, req.Quantity, harvestDate, req.FarmerID)
	if err != nil {
		log.Printf("Error updating product %s: %v", id, err)
		return errorResponse(c, "Could not update product", err)
	}

	h.catalog.AddOrUpdateProduct(*product)
	return c.JSON(product)
}

// HandleDeleteProduct removes a product from the catalog.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.catalog.RemoveProduct(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product with ID " + id + " not found",
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product " + id + " removed successfully",
	})
}

// HandleAdjustQuantity applies a stock delta (restock or correction).
func (h *ProductHandler) HandleAdjustQuantity(c *fiber.Ctx) error {
	id := c.Params("id")
	var body struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if !h.catalog.AdjustQuantity(id, body.Delta) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Quantity adjustment rejected: product unknown or result would be negative",
		})
	}
	product, err := h.catalog.GetProduct(id)
	if err != nil {
		return errorResponse(c, "Could not retrieve product after adjustment", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) parseProductRequest(c *fiber.Ctx) (*productRequest, error) {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return nil, err
	}
	if err := h.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			var fields []string
			for _, fieldErr := range validationErrs {
				fields = append(fields, fieldErr.Field())
			}
			return nil, fmt.Errorf("validation failed on fields: %s", strings.Join(fields, ", "))
		}
		return nil, err
	}
	return &req, nil
}
