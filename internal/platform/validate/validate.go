// Package validate runs declarative struct-tag validation on request DTOs and
// turns failures into the API error envelope.
//
// Rules live in `validate` tags (go-playground/validator). The client message
// for a field lives in its `msg` tag; the reported param is the json name.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/devconnect/devconnect/internal/platform/httpx"
)

const location = "body"

// Validator wraps a configured validator.Validate. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New constructs a Validator that reports json field names. Besides the
// built-in rules it understands `notblank`, which rejects whitespace-only
// strings.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns one item per failed field, in declaration
// order. A nil result means s is valid.
func (v *Validator) Struct(s any) []httpx.ErrorItem {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []httpx.ErrorItem{{Msg: err.Error(), Location: location}}
	}
	typ := reflect.TypeOf(s)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	items := make([]httpx.ErrorItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		items = append(items, httpx.ErrorItem{
			Msg:      message(typ, fe),
			Param:    fe.Field(),
			Location: location,
		})
	}
	return items
}

func message(typ reflect.Type, fe validator.FieldError) string {
	if typ.Kind() == reflect.Struct {
		if f, ok := typ.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return fe.Field() + " is invalid"
}
