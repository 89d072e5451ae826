package handlers

import (
	"fmt"
	"log"

	"eltetu/internal/middleware"
	"eltetu/internal/models"
	"eltetu/internal/pdfgen"
	"eltetu/internal/repositories"
	"eltetu/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app. Static
// segments are registered before the ":id" routes so Fiber matches them
// first.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleVendedor)
	courier := middleware.RequireRoles(models.RoleTransportador)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/estadisticas", staff, h.HandleStats)
	orderRoutes.Get("/transportadores", staff, h.HandleListCouriers)
	orderRoutes.Get("/transportador", courier, h.HandleCourierOrders)
	orderRoutes.Put("/transportador/:id/entregar", courier, h.HandleDeliver)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/pdf", h.HandleOrderPDF)
	orderRoutes.Put("/:id/estado", staff, h.HandleUpdateStatus)
	orderRoutes.Put("/:id/rechazar", staff, h.HandleReject)
	orderRoutes.Put("/:id/asignar-transportador", staff, h.HandleAssignCourier)
}

// HandleGetOrders lists orders scoped to the caller: customers see their
// own, couriers their assigned ones, staff everything (filterable).
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	filter := repositories.OrderFilter{}
	switch p.Rol {
	case models.RoleCliente:
		filter.CustomerID = p.UserID
	case models.RoleTransportador:
		filter.CourierID = p.UserID
	default:
		if cliente := c.Query("cliente"); cliente != "" {
			filter.CustomerID = cliente
		}
		if c.Query("mine") == "true" {
			filter.CustomerID = p.UserID
		}
	}
	if estado := c.Query("estado"); estado != "" {
		filter.Status = models.Status(estado)
	}

	orders, err := h.service.GetOrders(filter)
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !services.CanViewOrder(middleware.Principal(c), order) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "No tiene permisos para ver este pedido",
		})
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order. Customers always order for
// themselves; staff must name the customer explicitly.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var req services.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	switch p.Rol {
	case models.RoleCliente:
		req.CustomerID = p.UserID
	case models.RoleAdmin, models.RoleVendedor:
		if req.CustomerID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"kind":    "business_validation",
				"message": "debe especificar el cliente",
				"field":   "cliente_id",
			})
		}
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	order, err := h.service.CreateOrder(req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateStatusRequest is the body for a status change.
type UpdateStatusRequest struct {
	Estado models.Status `json:"estado" validate:"required"`
}

// HandleUpdateStatus executes a status transition on an order.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Estado == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":    "business_validation",
			"message": "el estado es obligatorio",
			"field":   "estado",
		})
	}

	order, err := h.service.UpdateStatus(c.Params("id"), req.Estado)
	if err != nil {
		log.Printf("Error updating order %s status: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleReject is a convenience wrapper over the rejection transition.
func (h *OrderHandler) HandleReject(c *fiber.Ctx) error {
	order, err := h.service.RejectOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error rejecting order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// AssignCourierRequest is the body for a courier assignment.
type AssignCourierRequest struct {
	TransportadorID string `json:"transportador_id" validate:"required"`
}

// HandleAssignCourier assigns a courier to an order.
func (h *OrderHandler) HandleAssignCourier(c *fiber.Ctx) error {
	var req AssignCourierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	order, err := h.service.AssignCourier(c.Params("id"), req.TransportadorID)
	if err != nil {
		log.Printf("Error assigning courier to order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCourierOrders lists the orders assigned to the calling courier.
func (h *OrderHandler) HandleCourierOrders(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	filter := repositories.OrderFilter{CourierID: p.UserID}
	if estado := c.Query("estado"); estado != "" {
		filter.Status = models.Status(estado)
	}
	orders, err := h.service.GetOrders(filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleDeliver confirms delivery; only the assigned courier may do it.
func (h *OrderHandler) HandleDeliver(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	order, err := h.service.MarkDelivered(c.Params("id"), p.UserID)
	if err != nil {
		log.Printf("Error delivering order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleListCouriers lists active courier accounts for assignment.
func (h *OrderHandler) HandleListCouriers(c *fiber.Ctx) error {
	couriers, err := h.service.ListCouriers()
	if err != nil {
		return respondError(c, err)
	}
	for i := range couriers {
		couriers[i].Password = ""
	}
	return c.JSON(couriers)
}

// HandleOrderPDF renders the delivery receipt. Read-only, no state change.
func (h *OrderHandler) HandleOrderPDF(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if !services.CanViewOrder(middleware.Principal(c), order) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "No tiene permisos para ver este pedido",
		})
	}

	pdfBytes, err := pdfgen.Remito(order)
	if err != nil {
		log.Printf("Error rendering remito for order %s: %v", order.ID, err)
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="remito_%s.pdf"`, order.ID))
	return c.Send(pdfBytes)
}

// HandleStats returns the order dashboard summary.
func (h *OrderHandler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
