package validation

import (
	"fmt"
	"sort"
	"strconv"

	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
)

// ExpectedKind tags the variant held by an ExpectedField.
type ExpectedKind int

const (
	KindPublicKey ExpectedKind = iota + 1
	KindInteger
)

// ExpectedField is either a public key or an unsigned integer.
// The zero value holds neither and never matches.
type ExpectedField struct {
	kind    ExpectedKind
	key     solana.PublicKey
	integer uint64
}

// PublicKey returns an ExpectedField holding a 32-byte key.
func PublicKey(pk solana.PublicKey) ExpectedField {
	return ExpectedField{kind: KindPublicKey, key: pk}
}

// Integer returns an ExpectedField holding an unsigned integer.
func Integer(v uint64) ExpectedField {
	return ExpectedField{kind: KindInteger, integer: v}
}

func (e ExpectedField) Kind() ExpectedKind { return e.kind }

// Key returns the held public key, if any.
func (e ExpectedField) Key() (solana.PublicKey, bool) {
	return e.key, e.kind == KindPublicKey
}

// Uint returns the held integer, if any.
func (e ExpectedField) Uint() (uint64, bool) {
	return e.integer, e.kind == KindInteger
}

func (e ExpectedField) String() string {
	switch e.kind {
	case KindPublicKey:
		return e.key.String()
	case KindInteger:
		return strconv.FormatUint(e.integer, 10)
	default:
		return "<none>"
	}
}

// ExpectedState maps canonical fields to their expected values.
// Fields absent from the map are not checked.
type ExpectedState map[sale.Field]ExpectedField

// NewExpectedState builds a state from canonical names or aliases.
// Two names resolving to the same field must agree.
func NewExpectedState(values map[string]ExpectedField) (ExpectedState, error) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	s := make(ExpectedState, len(values))
	for _, name := range names {
		if err := s.Set(name, values[name]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Set assigns an expected value by canonical name or alias.
func (s ExpectedState) Set(name string, v ExpectedField) error {
	f, err := sale.LookupField(name)
	if err != nil {
		return err
	}
	if prev, ok := s[f]; ok && prev != v {
		return fmt.Errorf("conflicting expectations for %s: %s and %s", f, prev, v)
	}
	s[f] = v
	return nil
}

// ExpectAccount returns a state expecting every field of acc.
func ExpectAccount(acc *sale.TokenSaleAccount) ExpectedState {
	return ExpectedState{
		sale.FieldIsInitialized:          Integer(uint64(acc.IsInitialized)),
		sale.FieldSellerPubkey:           PublicKey(acc.SellerPubkey),
		sale.FieldTempTokenAccountPubkey: PublicKey(acc.TempTokenAccountPubkey),
		sale.FieldSwapSolAmount:          Integer(acc.SwapSolAmount),
		sale.FieldSwapTokenAmount:        Integer(acc.SwapTokenAmount),
	}
}

// AfterInitialize is the state InitializeSale must leave behind.
func AfterInitialize(seller, temp solana.PublicKey, price, minBuy uint64) ExpectedState {
	return ExpectedState{
		sale.FieldIsInitialized:          Integer(1),
		sale.FieldSellerPubkey:           PublicKey(seller),
		sale.FieldTempTokenAccountPubkey: PublicKey(temp),
		sale.FieldSwapSolAmount:          Integer(price),
		sale.FieldSwapTokenAmount:        Integer(minBuy),
	}
}

// AfterUpdatePrice is the state UpdatePrice must leave behind. Only the price changes.
func AfterUpdatePrice(prev *sale.TokenSaleAccount, newPrice uint64) ExpectedState {
	s := ExpectAccount(prev)
	s[sale.FieldSwapSolAmount] = Integer(newPrice)
	return s
}
