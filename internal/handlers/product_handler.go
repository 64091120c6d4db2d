package handlers

import (
	"fmt"
	"log"

	"buynest/internal/middleware"
	"buynest/internal/models"
	"buynest/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products, including the
// low-stock notification trigger.
type ProductHandler struct {
	productService *services.ProductService
	notifications  *services.NotificationService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, notifications *services.NotificationService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		notifications:  notifications,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Read
// routes are public (with optional auth so admins see hidden products);
// every mutating route and the notify trigger require the admin capability.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	optional := middleware.AuthOptional(authService)
	authed := middleware.AuthRequired(authService)
	adminOnly := middleware.AdminOnly()

	productRoutes := router.Group("/products")
	productRoutes.Post("/notify", authed, adminOnly, h.HandleNotifySupplier)
	productRoutes.Get("/search", optional, h.HandleSearchProducts)
	productRoutes.Post("/category", optional, h.HandleGetProductsByCategory)
	productRoutes.Post("/", authed, adminOnly, h.HandleCreateProduct)
	productRoutes.Get("/", optional, h.HandleGetProducts)
	productRoutes.Put("/:productId", authed, adminOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:productId", authed, adminOnly, h.HandleDeleteProduct)
	productRoutes.Get("/:productId", h.HandleGetProductByID)
}

// HandleCreateProduct registers a new product under a minted identifier.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	product, err := h.productService.RegisterProduct(input)
	if err != nil {
		log.Printf("Error registering product: %v", err)
		return errorJSON(c, "Failed to add product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added successfully",
		"product": product,
	})
}

// HandleGetProducts lists products. Admins also see unavailable ones.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts(middleware.IsAdmin(c))
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return errorJSON(c, "Failed to get products", err)
	}
	return c.JSON(products)
}

// HandleSearchProducts lists products whose name matches the query parameter.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	query := c.Query("query")
	products, err := h.productService.SearchProducts(query, middleware.IsAdmin(c))
	if err != nil {
		log.Printf("Error searching products for %q: %v", query, err)
		return errorJSON(c, "Search failed", err)
	}
	return c.JSON(products)
}

// CategoryRequest is the request body for the category listing.
type CategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// HandleGetProductsByCategory lists products carrying the requested category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Category is required",
		})
	}

	products, err := h.productService.GetProductsByCategory(req.Category, middleware.IsAdmin(c))
	if err != nil {
		log.Printf("Error getting products by category %q: %v", req.Category, err)
		return errorJSON(c, "Failed to get products by category", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID fetches a single product by canonical identifier.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("productId")
	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		log.Printf("Error getting product %s: %v", productID, err)
		return errorJSON(c, "Product not found", err)
	}
	return c.JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var update models.ProductUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.productService.UpdateProduct(productID, update); err != nil {
		log.Printf("Error updating product %s: %v", productID, err)
		return errorJSON(c, "Failed to update product", err)
	}
	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// HandleDeleteProduct deletes a product by canonical identifier.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if err := h.productService.DeleteProduct(productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return errorJSON(c, "Failed to delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// NotifyRequest is the request body for the low-stock notification trigger.
type NotifyRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// HandleNotifySupplier triggers the low-stock alert for a product's linked
// supplier.
func (h *ProductHandler) HandleNotifySupplier(c *fiber.Ctx) error {
	var req NotifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}

	receipt, err := h.notifications.NotifySupplier(req.ProductID)
	if err != nil {
		log.Printf("Error notifying supplier for product %s: %v", req.ProductID, err)
		return errorJSON(c, "Failed to notify supplier", err)
	}
	return c.JSON(fiber.Map{
		"message": "Email sent to supplier successfully",
		"receipt": receipt,
	})
}
