package main

import (
	"fmt"
	"strings"

	"solana-token-sale/internal/instruction"
	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
	"solana-token-sale/internal/validation"
)

// expectFlag collects repeated -expect field=value flags.
type expectFlag struct {
	state validation.ExpectedState
}

func (e *expectFlag) String() string {
	if e == nil || len(e.state) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.state))
	for _, f := range sale.Fields() {
		if v, ok := e.state[f]; ok {
			parts = append(parts, f.String()+"="+v.String())
		}
	}
	return strings.Join(parts, ",")
}

func (e *expectFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected field=value, got %q", s)
	}
	v, err := parseExpectedValue(strings.TrimSpace(name), strings.TrimSpace(value))
	if err != nil {
		return err
	}
	if e.state == nil {
		e.state = validation.ExpectedState{}
	}
	return e.state.Set(strings.TrimSpace(name), v)
}

// parseExpectedValue reads value according to the kind of the named field:
// base58 for keys, a base-10 integer otherwise.
func parseExpectedValue(name, value string) (validation.ExpectedField, error) {
	f, err := sale.LookupField(name)
	if err != nil {
		return validation.ExpectedField{}, err
	}
	if f.Kind() == sale.KindPublicKey {
		pk, err := solana.ParsePublicKey(value)
		if err != nil {
			return validation.ExpectedField{}, fmt.Errorf("%s: %w", name, err)
		}
		return validation.PublicKey(pk), nil
	}
	n, err := instruction.ParseAmount(value)
	if err != nil {
		return validation.ExpectedField{}, fmt.Errorf("%s: %w", name, err)
	}
	return validation.Integer(n), nil
}
