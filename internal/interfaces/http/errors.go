package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/dto"
	"github.com/jhoicas/inventory-ledger/internal/domain"
)

var statusByCode = map[string]int{
	domain.CodeNotFound:          fiber.StatusNotFound,
	domain.CodeValidation:        fiber.StatusBadRequest,
	domain.CodeInvalidQuantity:   fiber.StatusUnprocessableEntity,
	domain.CodeNoChange:          fiber.StatusConflict,
	domain.CodeInsufficientStock: fiber.StatusConflict,
	domain.CodeConflict:          fiber.StatusConflict,
	domain.CodeDuplicate:         fiber.StatusConflict,
}

// StatusFor status HTTP para un código de dominio (500 si no es de dominio).
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// writeError renderiza err como dto.ErrorResponse. Los errores internos no exponen su mensaje.
func writeError(c *fiber.Ctx, err error) error {
	code := domain.CodeOf(err)
	status := StatusFor(code)
	if status == fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: domain.CodeInternal, Message: "error interno"})
	}
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	if e, ok := domain.AsError(err); ok {
		resp.Message = e.Message
		resp.Details = e.Details
	}
	return c.Status(status).JSON(resp)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
