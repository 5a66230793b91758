package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest entrada para incluir una nota en el carrito.
type AddCartItemRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required,uuid"`
}

// CartItemResponse nota incluida en el carrito.
type CartItemResponse struct {
	ID      string          `json:"id"`
	Number  string          `json:"number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
}

// CartResponse carrito de la empresa con totales y crédito disponible.
type CartResponse struct {
	CompanyID       string             `json:"company_id"`
	CompanyName     string             `json:"company_name"`
	Invoices        []CartItemResponse `json:"invoices"`
	TotalItems      int                `json:"total_items"`
	TotalGross      decimal.Decimal    `json:"total_gross"`
	CreditLimit     decimal.Decimal    `json:"credit_limit"`
	AvailableCredit decimal.Decimal    `json:"available_credit"`
}
