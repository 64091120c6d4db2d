package handlers

import (
	"log"

	"buynest/internal/middleware"
	"buynest/internal/models"
	"buynest/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SupplierHandler handles HTTP requests for supplier linkages.
type SupplierHandler struct {
	service  *services.SupplierService
	validate *validator.Validate
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the supplier routes with the Fiber app. Every
// supplier operation requires the admin capability.
func (h *SupplierHandler) RegisterRoutes(router fiber.Router, authService *services.AuthService) {
	authed := middleware.AuthRequired(authService)
	adminOnly := middleware.AdminOnly()

	supplierRoutes := router.Group("/suppliers", authed, adminOnly)
	supplierRoutes.Post("/", h.HandleCreateSupplier)
	supplierRoutes.Get("/", h.HandleGetSuppliers)
	supplierRoutes.Put("/:supplierId", h.HandleUpdateSupplier)
	supplierRoutes.Delete("/:supplierId", h.HandleDeleteSupplier)
}

// HandleCreateSupplier registers a supplier delivery against a product and
// returns both the new supplier record and the product with its updated
// stock, so callers can observe the reconciliation outcome directly.
func (h *SupplierHandler) HandleCreateSupplier(c *fiber.Ctx) error {
	var input models.SupplierInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create supplier request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	supplier, product, err := h.service.RegisterSupplier(input)
	if err != nil {
		log.Printf("Error registering supplier: %v", err)
		return errorJSON(c, "Failed to add supplier", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Supplier added successfully and product stock updated",
		"supplier":       supplier,
		"updatedProduct": product,
	})
}

// HandleGetSuppliers lists all supplier linkages, most recent first.
func (h *SupplierHandler) HandleGetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers()
	if err != nil {
		log.Printf("Error getting suppliers: %v", err)
		return errorJSON(c, "Failed to fetch suppliers", err)
	}
	return c.JSON(suppliers)
}

// HandleUpdateSupplier applies a partial update to a supplier linkage.
func (h *SupplierHandler) HandleUpdateSupplier(c *fiber.Ctx) error {
	supplierID := c.Params("supplierId")

	var update models.SupplierUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateSupplier(supplierID, update); err != nil {
		log.Printf("Error updating supplier %s: %v", supplierID, err)
		return errorJSON(c, "Failed to update supplier", err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated successfully"})
}

// HandleDeleteSupplier deletes a supplier linkage.
func (h *SupplierHandler) HandleDeleteSupplier(c *fiber.Ctx) error {
	supplierID := c.Params("supplierId")
	if err := h.service.DeleteSupplier(supplierID); err != nil {
		log.Printf("Error deleting supplier %s: %v", supplierID, err)
		return errorJSON(c, "Failed to delete supplier", err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted successfully"})
}
