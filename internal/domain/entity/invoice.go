package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice nota fiscal emitida por una empresa, candidata a anticipación.
// Número, valor y vencimiento solo se modifican mientras no está en el carrito.
type Invoice struct {
	ID        string
	CompanyID string
	Number    string
	Amount    decimal.Decimal
	DueDate   time.Time // fecha civil, sin hora (UTC medianoche)
	InCart    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewInvoice crea una nota fiscal fuera del carrito.
func NewInvoice(companyID, number string, amount decimal.Decimal, dueDate time.Time) *Invoice {
	now := time.Now().UTC()
	return &Invoice{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Number:    number,
		Amount:    amount,
		DueDate:   DateOnly(dueDate),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update reemplaza número, valor y vencimiento. El llamador verifica antes que no esté en el carrito.
func (i *Invoice) Update(number string, amount decimal.Decimal, dueDate time.Time) {
	i.Number = number
	i.Amount = amount
	i.DueDate = DateOnly(dueDate)
	i.UpdatedAt = time.Now().UTC()
}

// BelongsTo indica si la nota pertenece a la empresa dada.
func (i *Invoice) BelongsTo(companyID string) bool {
	return i.CompanyID == companyID
}

// AddToCart marca la nota como incluida en el carrito.
func (i *Invoice) AddToCart() {
	i.InCart = true
	i.UpdatedAt = time.Now().UTC()
}

// RemoveFromCart quita la marca de carrito.
func (i *Invoice) RemoveFromCart() {
	i.InCart = false
	i.UpdatedAt = time.Now().UTC()
}

// DateOnly normaliza t a la medianoche UTC de su fecha civil (leída en su propia zona).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
