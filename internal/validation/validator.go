// Package validation checks decoded sale accounts against expected post-conditions.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
)

// FieldDivergence represents a mismatch between expected and stored values.
type FieldDivergence struct {
	Field    sale.Field
	Expected ExpectedField
	Actual   []byte // nil when unset
	Err      error  // *FieldMismatchError or *UnsetFieldError
}

// Result contains every divergence found in one pass.
type Result struct {
	Checked     int // fields compared
	Divergences []FieldDivergence
}

// Passed reports whether no field diverged.
func (r *Result) Passed() bool {
	return len(r.Divergences) == 0
}

// Err joins the divergence errors, or returns nil when passed.
func (r *Result) Err() error {
	if r.Passed() {
		return nil
	}
	errs := make([]error, len(r.Divergences))
	for i, d := range r.Divergences {
		errs[i] = d.Err
	}
	return errors.Join(errs...)
}

// Validate compares raw fields with expected in layout order and returns
// the first failure.
func Validate(raw sale.RawFields, expected ExpectedState) error {
	for _, f := range sale.Fields() {
		want, ok := expected[f]
		if !ok {
			continue
		}
		if err := compareField(f, want, raw[f]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAll compares every expected field and collects all failures.
func ValidateAll(raw sale.RawFields, expected ExpectedState) *Result {
	res := &Result{}
	for _, f := range sale.Fields() {
		want, ok := expected[f]
		if !ok {
			continue
		}
		res.Checked++
		if err := compareField(f, want, raw[f]); err != nil {
			res.Divergences = append(res.Divergences, FieldDivergence{
				Field:    f,
				Expected: want,
				Actual:   raw[f],
				Err:      err,
			})
		}
	}
	return res
}

// ValidateAccount is Validate over a decoded account.
func ValidateAccount(acc *sale.TokenSaleAccount, expected ExpectedState) error {
	return Validate(acc.RawFields(), expected)
}

// CheckInitialized decodes account data and requires an active sale.
// Missing or empty data is ErrAccountNotFound, never a zeroed record.
func CheckInitialized(data []byte) (*sale.TokenSaleAccount, error) {
	if len(data) == 0 {
		return nil, ErrAccountNotFound
	}
	acc, err := sale.Decode(data)
	if err != nil {
		return nil, err
	}
	if acc.IsInitialized != 1 {
		return acc, fmt.Errorf("%w: isInitialized=%d", ErrNotInitialized, acc.IsInitialized)
	}
	return acc, nil
}

func compareField(f sale.Field, want ExpectedField, actual []byte) error {
	if len(actual) == 0 {
		return &UnsetFieldError{Field: f, Expected: want}
	}

	switch want.kind {
	case KindPublicKey:
		if len(actual) == solana.PublicKeySize && bytes.Equal(want.key[:], actual) {
			return nil
		}
	case KindInteger:
		if v, ok := decodeLE(actual); ok && v == want.integer {
			return nil
		}
	}
	return &FieldMismatchError{Field: f, Expected: want, Actual: actual}
}

// decodeLE reads an unsigned little-endian integer of any width.
// Widths over 8 bytes decode only if the excess bytes are zero.
func decodeLE(b []byte) (uint64, bool) {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		if i >= 8 {
			if b[i] != 0 {
				return 0, false
			}
			continue
		}
		v = v<<8 | uint64(b[i])
	}
	return v, true
}

// FormatRaw renders a raw field value: base58 for keys, decimal for integers.
func FormatRaw(f sale.Field, raw []byte) string {
	if len(raw) == 0 {
		return "<unset>"
	}
	if f.Valid() && f.Kind() == sale.KindPublicKey && len(raw) == solana.PublicKeySize {
		pk, _ := solana.PublicKeyFromBytes(raw)
		return pk.String()
	}
	if v, ok := decodeLE(raw); ok && len(raw) <= 8 {
		return strconv.FormatUint(v, 10)
	}
	return fmt.Sprintf("%x", raw)
}
