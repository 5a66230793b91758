package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Segment segmento de negocio declarado por la empresa al registrarse.
type Segment string

// Segmentos admitidos (deben coincidir con el CHECK de la tabla companies).
const (
	SegmentServices Segment = "Services"
	SegmentProducts Segment = "Products"
)

// Valid indica si el segmento es uno de los admitidos.
func (s Segment) Valid() bool {
	return s == SegmentServices || s == SegmentProducts
}

// CreditLimitFunc calcula el límite de crédito a partir del faturamento mensual y el segmento.
type CreditLimitFunc func(monthlyRevenue decimal.Decimal, segment Segment) decimal.Decimal

// Company empresa cedente con su línea de crédito.
// CreditLimit siempre se deriva de MonthlyRevenue y Segment; no existe ruta de actualización.
type Company struct {
	ID             string
	CNPJ           string
	Name           string
	MonthlyRevenue decimal.Decimal
	Segment        Segment
	CreditLimit    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCompany construye la empresa con ID nuevo y límite calculado por limitFn.
func NewCompany(cnpj, name string, monthlyRevenue decimal.Decimal, segment Segment, limitFn CreditLimitFunc) *Company {
	now := time.Now().UTC()
	return &Company{
		ID:             uuid.New().String(),
		CNPJ:           cnpj,
		Name:           name,
		MonthlyRevenue: monthlyRevenue,
		Segment:        segment,
		CreditLimit:    limitFn(monthlyRevenue, segment),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
