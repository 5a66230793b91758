package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/receivables-api/internal/application/cart"
	"github.com/jhoicas/receivables-api/internal/application/checkout"
	"github.com/jhoicas/receivables-api/internal/application/dto"
)

// CartHandler carrito y cotización de la empresa.
type CartHandler struct {
	cart     *cart.Service
	checkout *checkout.Service
	val      *Validator
	log      zerolog.Logger
}

// NewCartHandler construye el handler.
func NewCartHandler(cartSvc *cart.Service, co *checkout.Service, val *Validator, log zerolog.Logger) *CartHandler {
	return &CartHandler{cart: cartSvc, checkout: co, val: val, log: log}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.cart.GetCart(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar nota al carrito
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        companyID  path  string                  true  "ID de la empresa"
// @Param        body       body  dto.AddCartItemRequest  true  "Nota fiscal"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if ok, err := h.val.parseAndValidate(c, &in); !ok {
		return err
	}
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.cart.AddInvoiceToCart(c.UserContext(), companyID, in.InvoiceID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar nota del carrito
// @Tags         cart
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Param        invoiceId  path  string  true  "ID de la nota"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/cart/items/{invoiceId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	invoiceID, err := pathID(c, "invoiceId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.cart.RemoveInvoiceFromCart(c.UserContext(), companyID, invoiceID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CartCheckout godoc
// @Summary      Cotización del carrito
// @Tags         cart
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/cart/checkout [get]
func (h *CartHandler) CartCheckout(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.cart.GetCartCheckout(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Cotización de anticipación
// @Tags         checkout
// @Produce      json
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CheckoutResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/checkout [get]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.checkout.CalculateCheckout(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CheckoutPDF godoc
// @Summary      Descargar cotización en PDF
// @Tags         checkout
// @Produce      application/pdf
// @Param        companyID  path  string  true  "ID de la empresa"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /v1/companies/{companyId}/checkout/pdf [get]
func (h *CartHandler) CheckoutPDF(c *fiber.Ctx) error {
	companyID, err := pathID(c, "companyId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	content, filename, err := h.checkout.DownloadCheckoutPDF(c.UserContext(), companyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(content)
}
