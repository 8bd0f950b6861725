package sale

import (
	"encoding/binary"
	"fmt"
	"strings"

	"solana-token-sale/internal/solana"
)

// AccountSize is the fixed length of a sale account's data.
const AccountSize = 1 + solana.PublicKeySize + solana.PublicKeySize + 8 + 8

// TokenSaleAccount is the decoded on-chain sale state.
type TokenSaleAccount struct {
	IsInitialized          uint8
	SellerPubkey           solana.PublicKey
	TempTokenAccountPubkey solana.PublicKey
	SwapSolAmount          uint64 // lamports per token
	SwapTokenAmount        uint64 // minimum purchasable units
}

// PricePerToken is an alias of SwapSolAmount.
func (a *TokenSaleAccount) PricePerToken() uint64 {
	return a.SwapSolAmount
}

// MinBuy is an alias of SwapTokenAmount.
func (a *TokenSaleAccount) MinBuy() uint64 {
	return a.SwapTokenAmount
}

// Active reports whether the account describes an open sale.
func (a *TokenSaleAccount) Active() bool {
	return a.IsInitialized == 1
}

// Decode parses account data. No semantic checks are made on field values.
func Decode(data []byte) (*TokenSaleAccount, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedAccount, AccountSize, len(data))
	}

	var a TokenSaleAccount
	var offset int

	a.IsInitialized = data[offset]
	offset++
	getKey(data, &a.SellerPubkey, &offset)
	getKey(data, &a.TempTokenAccountPubkey, &offset)
	getUint64(data, &a.SwapSolAmount, &offset)
	getUint64(data, &a.SwapTokenAmount, &offset)

	return &a, nil
}

// Encode serializes the account into exactly AccountSize bytes.
func (a *TokenSaleAccount) Encode() []byte {
	data := make([]byte, AccountSize)
	var offset int

	data[offset] = a.IsInitialized
	offset++
	putKey(data, a.SellerPubkey, &offset)
	putKey(data, a.TempTokenAccountPubkey, &offset)
	putUint64(data, a.SwapSolAmount, &offset)
	putUint64(data, a.SwapTokenAmount, &offset)

	return data
}

func (a *TokenSaleAccount) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TokenSaleAccount{isInitialized=%d seller=%s temp=%s price=%d minBuy=%d}",
		a.IsInitialized,
		a.SellerPubkey,
		a.TempTokenAccountPubkey,
		a.SwapSolAmount,
		a.SwapTokenAmount,
	)
	return sb.String()
}

// RawFields is a per-field view of undecoded account bytes.
// A field whose bytes were not present holds a nil slice.
type RawFields map[Field][]byte

// RawFields returns the encoded bytes of every field.
func (a *TokenSaleAccount) RawFields() RawFields {
	raw, _ := RawFieldsOf(a.Encode())
	return raw
}

// RawFieldsOf slices data into fields by layout offset.
// Short data is tolerated: fields past the end are left nil so that
// callers can distinguish unset values from mismatches. The error
// reports ErrMalformedAccount when len(data) != AccountSize; the
// partial view is still returned.
func RawFieldsOf(data []byte) (RawFields, error) {
	raw := make(RawFields, len(fieldTable))
	for _, f := range Fields() {
		end := f.Offset() + f.Size()
		if end > len(data) {
			raw[f] = nil
			continue
		}
		raw[f] = append([]byte(nil), data[f.Offset():end]...)
	}
	if len(data) != AccountSize {
		return raw, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedAccount, AccountSize, len(data))
	}
	return raw, nil
}

func getKey(src []byte, dst *solana.PublicKey, offset *int) {
	copy(dst[:], src[*offset:*offset+solana.PublicKeySize])
	*offset += solana.PublicKeySize
}

func getUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func putKey(dst []byte, v solana.PublicKey, offset *int) {
	copy(dst[*offset:], v[:])
	*offset += solana.PublicKeySize
}

func putUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}
