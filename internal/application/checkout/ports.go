package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/dto"
)

// NetValueCalculator valor neto anticipado de un importe bruto.
type NetValueCalculator interface {
	CalculateNetValue(gross decimal.Decimal, dueDate, referenceDate time.Time) decimal.Decimal
}

// QuotationPDFGenerator renderiza la cotización del carrito como documento PDF.
type QuotationPDFGenerator interface {
	GenerateQuotation(quotation *dto.CheckoutResponse, generatedAt time.Time) ([]byte, error)
}
