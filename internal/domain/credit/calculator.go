// Package credit calcula el límite de crédito de una empresa por tramos de faturamento.
package credit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/domain/entity"
)

var (
	// MinimumRevenue faturamento mensual mínimo para tener límite.
	MinimumRevenue = decimal.NewFromInt(10000)

	firstTierCeiling  = decimal.NewFromInt(50000)
	secondTierCeiling = decimal.NewFromInt(100000)

	rateFirstTier          = decimal.RequireFromString("0.50")
	rateSecondTierServices = decimal.RequireFromString("0.55")
	rateSecondTierProducts = decimal.RequireFromString("0.60")
	rateUpperTierServices  = decimal.RequireFromString("0.60")
	rateUpperTierProducts  = decimal.RequireFromString("0.65")
)

var _ entity.CreditLimitFunc = Calculate

// Calculate devuelve faturamento × tasa del tramo, sin redondeo. Los topes de cada tramo
// son inclusivos; por debajo del mínimo o con segmento desconocido el límite es cero.
func Calculate(monthlyRevenue decimal.Decimal, segment entity.Segment) decimal.Decimal {
	rate := rateFor(monthlyRevenue, segment)
	if rate.IsZero() {
		return decimal.Zero
	}
	return monthlyRevenue.Mul(rate)
}

func rateFor(revenue decimal.Decimal, segment entity.Segment) decimal.Decimal {
	if revenue.LessThan(MinimumRevenue) || !segment.Valid() {
		return decimal.Zero
	}
	switch {
	case revenue.LessThanOrEqual(firstTierCeiling):
		return rateFirstTier
	case revenue.LessThanOrEqual(secondTierCeiling):
		if segment == entity.SegmentServices {
			return rateSecondTierServices
		}
		return rateSecondTierProducts
	default:
		if segment == entity.SegmentServices {
			return rateUpperTierServices
		}
		return rateUpperTierProducts
	}
}
