package http

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/receivables-api/internal/application/dto"
	"github.com/jhoicas/receivables-api/internal/domain"
	"github.com/jhoicas/receivables-api/pkg/cnpj"
)

// Validator valida los DTO de entrada antes de llegar a los casos de uso.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator registra las reglas propias: cnpj, dgt, dgte, dmaxscale y futuredate.
func NewValidator() *Validator {
	val := &Validator{v: validator.New(), now: time.Now}

	val.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// decimal.Decimal se valida como su representación textual.
	val.v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = val.v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return cnpj.IsValid(fl.Field().String())
	})
	_ = val.v.RegisterValidation("dgt", decimalCompare(func(a, b decimal.Decimal) bool { return a.GreaterThan(b) }))
	_ = val.v.RegisterValidation("dgte", decimalCompare(func(a, b decimal.Decimal) bool { return a.GreaterThanOrEqual(b) }))
	_ = val.v.RegisterValidation("dmaxscale", func(fl validator.FieldLevel) bool {
		v, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		if err != nil {
			return false
		}
		return v.Equal(v.Truncate(int32(places)))
	})
	_ = val.v.RegisterValidation("futuredate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(dto.DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		y, m, day := val.now().UTC().Date()
		return d.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC))
	})
	return val
}

func decimalCompare(cmp func(a, b decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		p, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(v, p)
	}
}

// Struct valida s y devuelve los errores por campo (nil si es válido).
func (val *Validator) Struct(s any) []dto.FieldError {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []dto.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, dto.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "cnpj":
		return "CNPJ inválido: deben ser 14 dígitos con dígitos verificadores correctos"
	case "uuid":
		return "debe ser un UUID"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "min":
		return "longitud mínima " + fe.Param()
	case "max":
		return "longitud máxima " + fe.Param()
	case "dgt":
		return "debe ser mayor que " + fe.Param()
	case "dgte":
		return "debe ser mayor o igual a " + fe.Param()
	case "dmaxscale":
		return "admite como máximo " + fe.Param() + " decimales"
	case "datetime":
		return "formato de fecha esperado AAAA-MM-DD"
	case "futuredate":
		return "la fecha debe ser posterior a hoy"
	default:
		return fmt.Sprintf("no cumple la regla %s", fe.Tag())
	}
}

// parseAndValidate decodifica el body en dst y lo valida. Si falla, ya escribió la respuesta 400
// y devuelve ok=false.
func (val *Validator) parseAndValidate(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := val.Struct(dst); errs != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "la solicitud no es válida",
			Errors:  errs,
		})
	}
	return true, nil
}

// pathID devuelve el parámetro de ruta como UUID canónico. Un ID mal formado no puede
// existir, así que se informa como domain.ErrNotFound.
func pathID(c *fiber.Ctx, key string) (string, error) {
	raw := c.Params(key)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: el recurso con ID %q no fue encontrado", domain.ErrNotFound, raw)
	}
	return id.String(), nil
}
