package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCompanyRequest entrada para registrar una empresa cedente.
type CreateCompanyRequest struct {
	CNPJ           string          `json:"cnpj" validate:"required,cnpj"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue" validate:"dgte=0,dmaxscale=2"`
	Segment        string          `json:"segment" validate:"required,oneof=Services Products"`
}

// CompanyResponse salida de una empresa con su límite de crédito.
type CompanyResponse struct {
	ID             string          `json:"id"`
	CNPJ           string          `json:"cnpj"`
	Name           string          `json:"name"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	Segment        string          `json:"segment"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
