package dto

import "github.com/shopspring/decimal"

// CheckoutItemResponse valoración de una nota: bruto y neto anticipado.
type CheckoutItemResponse struct {
	Number     string          `json:"number"`
	GrossValue decimal.Decimal `json:"gross_value"`
	NetValue   decimal.Decimal `json:"net_value"`
}

// CheckoutResponse cotización de anticipación del carrito.
type CheckoutResponse struct {
	Company     string                 `json:"company"`
	CNPJ        string                 `json:"cnpj"`
	CreditLimit decimal.Decimal        `json:"credit_limit"`
	Invoices    []CheckoutItemResponse `json:"invoices"`
	TotalNet    decimal.Decimal        `json:"total_net"`
	TotalGross  decimal.Decimal        `json:"total_gross"`
}
