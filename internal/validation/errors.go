package validation

import (
	"errors"
	"fmt"

	"solana-token-sale/internal/sale"
)

var (
	// ErrFieldMismatch matches every FieldMismatchError.
	ErrFieldMismatch = errors.New("field mismatch")

	// ErrUnsetField matches every UnsetFieldError.
	ErrUnsetField = errors.New("field unset")

	// ErrAccountNotFound is returned when the sale account does not exist,
	// e.g. after CloseSale.
	ErrAccountNotFound = errors.New("sale account not found")

	// ErrNotInitialized is returned when isInitialized is not 1.
	ErrNotInitialized = errors.New("sale account not initialized")
)

// FieldMismatchError reports a field whose stored value differs from the expected one.
type FieldMismatchError struct {
	Field    sale.Field
	Expected ExpectedField
	Actual   []byte // raw stored bytes
}

func (e *FieldMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, FormatRaw(e.Field, e.Actual))
}

func (e *FieldMismatchError) Is(target error) bool {
	return target == ErrFieldMismatch
}

// UnsetFieldError reports an expected field with no stored bytes.
type UnsetFieldError struct {
	Field    sale.Field
	Expected ExpectedField
}

func (e *UnsetFieldError) Error() string {
	return fmt.Sprintf("%s: expected %s, field unset", e.Field, e.Expected)
}

func (e *UnsetFieldError) Is(target error) bool {
	return target == ErrUnsetField
}
