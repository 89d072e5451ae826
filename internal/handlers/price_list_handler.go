package handlers

import (
	"log"

	"eltetu/internal/middleware"
	"eltetu/internal/models"
	"eltetu/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PriceListHandler handles HTTP requests for price lists.
type PriceListHandler struct {
	service  *services.PriceListService
	validate *validator.Validate
}

// NewPriceListHandler creates a new PriceListHandler.
func NewPriceListHandler(service *services.PriceListService) *PriceListHandler {
	return &PriceListHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the price-list routes; management is admin-only,
// reads are open to staff as well.
func (h *PriceListHandler) RegisterRoutes(router fiber.Router) {
	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleVendedor)

	listRoutes := router.Group("/listas-precio")
	listRoutes.Get("/", staff, h.HandleGetPriceLists)
	listRoutes.Get("/:id", staff, h.HandleGetPriceListByID)
	listRoutes.Post("/", admin, h.HandleCreatePriceList)
	listRoutes.Put("/:id", admin, h.HandleUpdatePriceList)
	listRoutes.Delete("/:id", admin, h.HandleDeletePriceList)
}

// HandleGetPriceLists retrieves all price lists.
func (h *PriceListHandler) HandleGetPriceLists(c *fiber.Ctx) error {
	lists, err := h.service.GetAllPriceLists()
	if err != nil {
		log.Printf("Error getting price lists: %v", err)
		return respondError(c, err)
	}
	return c.JSON(lists)
}

// HandleGetPriceListByID retrieves a single price list by its ID.
func (h *PriceListHandler) HandleGetPriceListByID(c *fiber.Ctx) error {
	list, err := h.service.GetPriceListByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// HandleCreatePriceList creates a new price list.
func (h *PriceListHandler) HandleCreatePriceList(c *fiber.Ctx) error {
	var list models.PriceList
	if err := c.BodyParser(&list); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(list); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	if err := h.service.CreatePriceList(&list); err != nil {
		log.Printf("Error creating price list: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

// HandleUpdatePriceList updates an existing price list. Historical orders
// keep their snapshots.
func (h *PriceListHandler) HandleUpdatePriceList(c *fiber.Ctx) error {
	var list models.PriceList
	if err := c.BodyParser(&list); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	list.ID = c.Params("id")

	if err := h.validate.Struct(list); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	if err := h.service.UpdatePriceList(&list); err != nil {
		log.Printf("Error updating price list %s: %v", list.ID, err)
		return respondError(c, err)
	}
	return c.JSON(list)
}

// HandleDeletePriceList removes (or deactivates, if referenced) a price
// list.
func (h *PriceListHandler) HandleDeletePriceList(c *fiber.Ctx) error {
	if err := h.service.DeletePriceList(c.Params("id")); err != nil {
		log.Printf("Error deleting price list %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Price list deleted successfully"})
}
