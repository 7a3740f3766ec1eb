// Package validation wraps go-playground/validator and translates its
// failures into the API's {message, errors: {field: [...]}} envelope, with
// field names taken from json tags and messages in the API's language.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"receitas-api/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates a request struct and returns an apperror validation error
// listing every failing field, or nil when the struct is valid.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation: %w", err)
	}

	fields := make(map[string][]string, len(verrs))
	order := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := fields[name]; !seen {
			order = append(order, name)
		}
		fields[name] = append(fields[name], message(fe))
	}

	return apperror.ValidationFields(order, fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("O campo %s deve ter no máximo %s caracteres.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("O campo %s deve ser no máximo %s.", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("O campo %s deve ter pelo menos %s caracteres.", fe.Field(), fe.Param())
		}
		if fe.Param() == "1" {
			return fmt.Sprintf("O campo %s deve ser maior que 0.", fe.Field())
		}
		return fmt.Sprintf("O campo %s deve ser no mínimo %s.", fe.Field(), fe.Param())
	case "eqfield":
		return "A confirmação de senha não confere."
	default:
		return fmt.Sprintf("O campo %s é inválido.", fe.Field())
	}
}
