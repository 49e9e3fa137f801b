package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telas-api/internal/application/dto"
	"github.com/jhoicas/telas-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeError traduce los errores de dominio al cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var (
		overage      *domain.OverageWarning
		invalid      *domain.ValidationError
		insufficient *domain.InsufficientQuantityError
		conflict     *domain.ConflictError
	)
	switch {
	case errors.As(err, &overage):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "OVERAGE_WARNING",
			Message: "la recepción supera lo pendiente; reenviar con force=true para confirmar",
			Details: dto.NewOverageLines(overage),
		})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: invalid.Error(),
			Details: []dto.FieldError{{Field: invalid.Field, Reason: invalid.Reason, LineID: invalid.LineID}},
		})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: insufficient.Error()})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conflict.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrMissingTenant), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "almacén no disponible, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// validationFailed respuesta 400 con un FieldError por regla incumplida.
func validationFailed(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	fields := make([]dto.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, dto.FieldError{Field: fe.Namespace(), Reason: fe.Tag()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: fields})
}

// parseDay fecha YYYY-MM-DD opcional; vacío es tiempo cero (el caso de uso usa hoy).
func parseDay(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, domain.Invalid(field, "fecha inválida, se espera YYYY-MM-DD")
	}
	return day, nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
