// Package anticipation calcula el valor neto de una nota fiscal anticipada antes de su vencimiento.
package anticipation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMonthlyRate tasa mensual de descuento (4,65%).
var DefaultMonthlyRate = decimal.RequireFromString("0.0465")

const daysPerMonth = 30.0

// Calculator aplica descuento compuesto mensual sobre el valor bruto.
type Calculator struct {
	rate float64
}

// NewCalculator crea el calculador con la tasa mensual dada; una tasa no positiva usa DefaultMonthlyRate.
func NewCalculator(monthlyRate decimal.Decimal) *Calculator {
	if !monthlyRate.IsPositive() {
		monthlyRate = DefaultMonthlyRate
	}
	return &Calculator{rate: monthlyRate.InexactFloat64()}
}

// CalculateNetValue devuelve gross / (1+r)^(días/30) redondeado a 2 decimales (mitad lejos de cero).
// Los días son la diferencia entre fechas civiles; con vencimiento hoy o pasado devuelve gross sin cambios.
func (c *Calculator) CalculateNetValue(gross decimal.Decimal, dueDate, referenceDate time.Time) decimal.Decimal {
	days := DaysBetween(referenceDate, dueDate)
	if days <= 0 {
		return gross
	}
	factor := math.Pow(1+c.rate, float64(days)/daysPerMonth)
	return gross.Div(decimal.NewFromFloat(factor)).Round(2)
}

// DaysBetween cantidad de días civiles de from a to; la hora del día se ignora.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
