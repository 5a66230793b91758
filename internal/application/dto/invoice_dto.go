package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fechas civiles en la API.
const DateLayout = "2006-01-02"

// CreateInvoiceRequest entrada para registrar una nota fiscal.
type CreateInvoiceRequest struct {
	CompanyID string          `json:"company_id" validate:"required,uuid"`
	Number    string          `json:"number" validate:"required,min=1,max=50"`
	Amount    decimal.Decimal `json:"amount" validate:"dgt=0,dmaxscale=2"`
	DueDate   string          `json:"due_date" validate:"required,datetime=2006-01-02,futuredate"`
}

// UpdateInvoiceRequest entrada para editar una nota fuera del carrito.
type UpdateInvoiceRequest struct {
	Number  string          `json:"number" validate:"required,min=1,max=50"`
	Amount  decimal.Decimal `json:"amount" validate:"dgt=0,dmaxscale=2"`
	DueDate string          `json:"due_date" validate:"required,datetime=2006-01-02,futuredate"`
}

// InvoiceResponse salida de una nota fiscal.
type InvoiceResponse struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   string          `json:"due_date"`
	InCart    bool            `json:"in_cart"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InvoiceListResponse notas de una empresa.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Total int               `json:"total"`
}
