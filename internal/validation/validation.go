// Package validation runs the client-side checks that must pass before a
// request is sent: required fields, numeric amounts, known priorities.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/plantops/ot/internal/types"
)

// ErrInvalid is the sentinel wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

// Error is a failed check on one field. Its text is meant for the user.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// UserFacing marks the error text as safe to show as is.
func (e *Error) UserFacing() bool {
	return true
}

// Messages is implemented by structs that provide their own text per
// field. Keys are Go field names, optionally suffixed with ".<tag>".
type Messages interface {
	ValidationMessages() map[string]string
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := registerRules(v); err != nil {
			panic("validation: failed to register rules: " + err.Error())
		}
		validate = v
	})
	return validate
}

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("priority", isPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	return nil
}

func isPriority(fl validator.FieldLevel) bool {
	return types.Priority(fl.Field().String()).IsValid()
}

func isNotBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String()) != ""
	}
	return !f.IsZero()
}

// Struct validates s and returns the first failure as *Error.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation: %w", err)
	}
	fe := fieldErrs[0]

	var custom map[string]string
	if m, ok := s.(Messages); ok {
		custom = m.ValidationMessages()
	}
	field := fieldPath(fe)
	for _, key := range []string{field + "." + fe.Tag(), field} {
		if msg, ok := custom[key]; ok {
			return &Error{Field: field, Message: msg}
		}
	}
	return &Error{Field: field, Message: defaultMessage(fe)}
}

// fieldPath drops the root struct name from the namespace, so nested fields
// read "Asset.ID".
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.StructField()
}

func defaultMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s es obligatorio", name)
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual que %s", name, fe.Param())
	case "priority":
		return fmt.Sprintf("Prioridad no válida: %v", fe.Value())
	case "datetime":
		return fmt.Sprintf("%s debe tener el formato %s", name, fe.Param())
	}
	return fmt.Sprintf("%s no es válido", name)
}

// Required fails with message when value is blank.
func Required(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Field: field, Message: message}
	}
	return nil
}

// Fail returns a validation error for field.
func Fail(field, message string) error {
	return &Error{Field: field, Message: message}
}

// IsInvalid reports whether err is a validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
