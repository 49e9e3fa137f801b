package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrMissingTenant        = errors.New("organización requerida")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente en el rollo")
	ErrOverage              = errors.New("la cantidad recibida supera lo pendiente de la orden")
	ErrPersistence          = errors.New("error de persistencia")
)

// ValidationError rechazo de validación antes de cualquier escritura.
// LineID identifica la línea de orden cuando el error es por línea.
type ValidationError struct {
	Field  string
	Reason string
	LineID string
}

func (e *ValidationError) Error() string {
	if e.LineID != "" {
		return fmt.Sprintf("línea %s: %s: %s", e.LineID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError sin línea.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// LineOverage detalle de una línea de compra cuya recepción propuesta excede lo pendiente.
type LineOverage struct {
	LineID    string
	ProductID string
	Ordered   decimal.Decimal
	Received  decimal.Decimal
	Remaining decimal.Decimal
	Proposed  decimal.Decimal
}

// OverageWarning advertencia recuperable: el operador debe confirmar (force) para continuar.
type OverageWarning struct {
	Lines []LineOverage
}

func (e *OverageWarning) Error() string {
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		ids = append(ids, l.LineID)
	}
	return fmt.Sprintf("recepción excede lo pendiente en líneas: %s", strings.Join(ids, ", "))
}

func (e *OverageWarning) Unwrap() error { return ErrOverage }

// InsufficientQuantityError el despacho pide más de lo que queda en el rollo.
type InsufficientQuantityError struct {
	RollID    string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("rollo %s: solicitado %s kg, disponible %s kg",
		e.RollID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientQuantityError) Unwrap() error { return ErrInsufficientQuantity }

// ConflictError colisión de identificador (número de rollo, número de despacho).
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s duplicado: %s", e.Resource, e.Value)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// PersistenceError el almacén no respondió o rechazó una escritura.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Persistence envuelve err como PersistenceError salvo que ya sea un error de dominio conocido.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrMissingTenant,
		ErrConflict, ErrInsufficientQuantity, ErrOverage, ErrPersistence,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return &PersistenceError{Op: op, Err: err}
}
