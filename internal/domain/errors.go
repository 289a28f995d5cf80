package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrNoChange          = errors.New("la cantidad objetivo es igual a la actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
)

// Códigos legibles por máquina expuestos al cliente.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION"
	CodeInvalidQuantity   = "INVALID_QUANTITY"
	CodeNoChange          = "NO_CHANGE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeDuplicate         = "DUPLICATE"
	CodeInternal          = "INTERNAL"
)

// Error es el error estructurado del motor de inventario: código, mensaje y detalles.
// Envuelve un error centinela para que errors.Is siga funcionando.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithDetail agrega un par clave/valor a los detalles.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NotFound entidad referenciada inexistente o de otra empresa.
func NotFound(kind, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s no encontrado", kind),
		Details: map[string]any{"entity": kind, "id": id},
		Err:     ErrNotFound,
	}
}

// Validation intención mal formada.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Err: ErrInvalidInput}
}

// InvalidQuantity cantidad no positiva en una entrada o salida.
func InvalidQuantity(message string) *Error {
	return &Error{Code: CodeInvalidQuantity, Message: message, Err: ErrInvalidQuantity}
}

// NoChange ajuste cuyo objetivo coincide con la cantidad actual.
func NoChange(current string) *Error {
	return &Error{
		Code:    CodeNoChange,
		Message: "la cantidad objetivo es igual a la cantidad actual",
		Details: map[string]any{"current_quantity": current},
		Err:     ErrNoChange,
	}
}

// InsufficientStock salida que dejaría el saldo en negativo (solo si la política lo prohíbe).
func InsufficientStock(productID, requested, available string) *Error {
	return &Error{
		Code:    CodeInsufficientStock,
		Message: "stock insuficiente",
		Details: map[string]any{"product_id": productID, "requested": requested, "available": available},
		Err:     ErrInsufficientStock,
	}
}

// Duplicate identificador ya usado por otro registro.
func Duplicate(message string) *Error {
	return &Error{Code: CodeDuplicate, Message: message, Err: ErrDuplicate}
}

// Conflict reintentos agotados por escritores concurrentes.
func Conflict(message string, cause error) *Error {
	return &Error{Code: CodeConflict, Message: message, Err: errors.Join(ErrConflict, cause)}
}

// AsError extrae el *Error de la cadena, si existe.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf devuelve el código de máquina para cualquier error (INTERNAL si no es de dominio).
func CodeOf(err error) string {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrNoChange):
		return CodeNoChange
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	}
	return CodeInternal
}
