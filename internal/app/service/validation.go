package service

import (
	"fmt"
	"reflect"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(optionalValue[string], model.Optional[string]{})
	v.RegisterCustomTypeFunc(optionalValue[bool], model.Optional[bool]{})
	v.RegisterCustomTypeFunc(optionalValue[uint32], model.Optional[uint32]{})
	v.RegisterCustomTypeFunc(optionalValue[uint64], model.Optional[uint64]{})
	v.RegisterCustomTypeFunc(optionalValue[[]string], model.Optional[[]string]{})
	return v
}

// optionalValue exposes the held value to validation rules; absent and null validate as
// empty, so Optional fields should lead their tag with omitempty.
func optionalValue[T any](field reflect.Value) interface{} {
	o, ok := field.Interface().(model.Optional[T])
	if !ok {
		return nil
	}
	if v, present := o.Get(); present {
		return v
	}
	return nil
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return nil
}

// applyRequired copies a present value into dst. Null is refused because the target
// column has no null state.
func applyRequired[T any](dst *T, o model.Optional[T], field string) error {
	if o.IsNull() {
		return fmt.Errorf("%s cannot be null: %w", field, common.ErrValidation)
	}
	if v, ok := o.Get(); ok {
		*dst = v
	}
	return nil
}

// applyNullable copies o into dst when the key was sent; null clears the value.
func applyNullable[T any](dst *model.Optional[T], o model.Optional[T]) {
	if o.IsSet() {
		*dst = o
	}
}
