// Package validation envuelve go-playground/validator y traduce sus errores a domain.ValidationError.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/ventas-api/internal/domain"
)

// Validator validador compartido por los casos de uso. Es seguro para uso concurrente.
type Validator struct {
	v *validator.Validate
}

// New construye el validador; los campos se nombran por su tag json.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida in y devuelve el primer campo rechazado como *domain.ValidationError.
func (val *Validator) Struct(in any) error {
	err := val.v.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	return domain.NewValidationError(fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:], reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "min", "gte":
		return "debe ser al menos " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "max", "lte":
		return "debe ser como máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "email":
		return "no es un email válido"
	case "uuid", "uuid4":
		return "no es un identificador válido"
	case "ne":
		return "no puede ser " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}
