package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio. El adaptador HTTP los traduce a códigos de estado con errors.Is,
// nunca inspeccionando el texto del mensaje.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrBusinessRule      = errors.New("regla de negocio violada")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvalidInput      = ErrValidation
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Códigos de reglas de negocio expuestos al cliente.
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotEditable       = "NOT_EDITABLE"
	CodeMissingWarehouse  = "MISSING_WAREHOUSE"
	CodeNothingToReceive  = "NOTHING_TO_RECEIVE"
	CodeNotPurchaseOrder  = "NOT_PURCHASE_ORDER"
	CodeEmptyDocument     = "EMPTY_DOCUMENT"
)

// BusinessRuleError describe una violación de regla de negocio (transición inválida,
// bodega faltante, nada pendiente por recibir...). Coincide con ErrBusinessRule.
type BusinessRuleError struct {
	Code    string
	Message string
}

// NewBusinessRule construye un BusinessRuleError con mensaje formateado.
func NewBusinessRule(code, format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *BusinessRuleError) Error() string { return e.Message }

func (e *BusinessRuleError) Is(target error) bool { return target == ErrBusinessRule }

// InsufficientStockError indica que una salida dejaría el saldo (bodega, producto) en negativo.
// Coincide con ErrInsufficientStock y con ErrBusinessRule.
type InsufficientStockError struct {
	WarehouseID string
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Required    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: disponible=%s, requerido=%s",
		name, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock || target == ErrBusinessRule
}

// ValidationError error de forma del request (campo faltante o fuera de rango).
type ValidationError struct {
	Field   string
	Message string
}

// NewValidation construye un ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
