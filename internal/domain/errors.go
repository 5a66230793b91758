package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrInvalidState        = errors.New("operación inválida para el estado actual")
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
	ErrEmptyCart           = errors.New("carrito vacío")
)
