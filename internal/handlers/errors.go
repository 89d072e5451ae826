package handlers

import (
	"errors"
	"fmt"
	"strings"

	"eltetu/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError converts service errors into HTTP responses. Business-rule
// violations become 400 with a machine-readable kind and field attribution;
// unknown entities become 404; everything else is an infrastructure failure.
func respondError(c *fiber.Ctx, err error) error {
	var transition *services.InvalidStateTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":    "invalid_state_transition",
			"message": transition.Error(),
			"current": transition.Current,
			"target":  transition.Target,
		})
	}

	var stock *services.InsufficientStockError
	if errors.As(err, &stock) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":       "insufficient_stock",
			"message":    stock.Error(),
			"producto":   stock.ProductName,
			"solicitado": stock.Requested,
			"disponible": stock.Available,
		})
	}

	var notAvailable *services.ProductNotAvailableError
	if errors.As(err, &notAvailable) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":     "product_not_available",
			"message":  notAvailable.Error(),
			"producto": notAvailable.ProductID,
		})
	}

	var validation *services.BusinessValidationError
	if errors.As(err, &validation) {
		resp := fiber.Map{
			"kind":    "business_validation",
			"message": validation.Message,
		}
		if validation.Field != "" {
			resp["field"] = validation.Field
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	if strings.Contains(err.Error(), "not found") {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// formatValidationErrors turns validator errors into a field -> message map.
func formatValidationErrors(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	} else {
		errorMessages["request"] = err.Error()
	}
	return errorMessages
}
