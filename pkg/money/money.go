// Package money formatea importes en reales para mensajes y documentos.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Scale decimales admitidos en importes (centavos), igual que NUMERIC(18,2).
const Scale = 2

var printer = message.NewPrinter(language.BrazilianPortuguese)

// HasValidScale indica si v se representa en centavos sin perder precisión.
func HasValidScale(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(Scale))
}

// FormatBRL devuelve el importe con símbolo y separadores brasileños, ej. "R$ 10.000,00".
func FormatBRL(v decimal.Decimal) string {
	return printer.Sprintf("R$ %v", number.Decimal(v.Round(2).InexactFloat64(), number.Scale(2)))
}
