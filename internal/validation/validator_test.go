package validation

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
)

func testKey(fill byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

func testAccount() *sale.TokenSaleAccount {
	return &sale.TokenSaleAccount{
		IsInitialized:          1,
		SellerPubkey:           testKey(0x11),
		TempTokenAccountPubkey: testKey(0x22),
		SwapSolAmount:          2_000_000,
		SwapTokenAmount:        1,
	}
}

func le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func TestValidate_IntegerEquality(t *testing.T) {
	raw := sale.RawFields{sale.FieldSwapSolAmount: le(2_000_000)}

	assert.NoError(t, Validate(raw, ExpectedState{sale.FieldSwapSolAmount: Integer(2_000_000)}))

	for _, want := range []uint64{1_999_999, 2_000_001} {
		err := Validate(raw, ExpectedState{sale.FieldSwapSolAmount: Integer(want)})
		assert.ErrorIs(t, err, ErrFieldMismatch, "expected %d", want)
	}

	for _, stored := range []uint64{1_999_999, 2_000_001} {
		raw := sale.RawFields{sale.FieldSwapSolAmount: le(stored)}
		err := Validate(raw, ExpectedState{sale.FieldSwapSolAmount: Integer(2_000_000)})
		assert.ErrorIs(t, err, ErrFieldMismatch, "stored %d", stored)
	}
}

func TestValidate_IntegerNumericNotBytewise(t *testing.T) {
	// Shorter and zero-padded encodings decode to the same value
	expected := ExpectedState{sale.FieldSwapTokenAmount: Integer(256)}
	assert.NoError(t, Validate(sale.RawFields{sale.FieldSwapTokenAmount: []byte{0, 1}}, expected))
	assert.NoError(t, Validate(sale.RawFields{sale.FieldSwapTokenAmount: []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 0}}, expected))

	err := Validate(sale.RawFields{sale.FieldSwapTokenAmount: []byte{0, 1, 0, 0, 0, 0, 0, 0, 0, 1}}, expected)
	assert.ErrorIs(t, err, ErrFieldMismatch)
}

func TestValidate_KeyComparison(t *testing.T) {
	stored := testKey(0x33)
	raw := sale.RawFields{sale.FieldSellerPubkey: append([]byte(nil), stored[:]...)}

	// Same bytes, different allocation
	copyKey, err := solana.PublicKeyFromBytes(append([]byte(nil), stored[:]...))
	require.NoError(t, err)
	assert.NoError(t, Validate(raw, ExpectedState{sale.FieldSellerPubkey: PublicKey(copyKey)}))

	for i := 0; i < solana.PublicKeySize; i++ {
		diff := stored
		diff[i] ^= 0x01
		err := Validate(raw, ExpectedState{sale.FieldSellerPubkey: PublicKey(diff)})
		assert.ErrorIs(t, err, ErrFieldMismatch, "byte %d", i)
	}
}

func TestValidate_UnsetField(t *testing.T) {
	expected := ExpectedState{sale.FieldSwapTokenAmount: Integer(0)}

	err := Validate(sale.RawFields{}, expected)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsetField)
	assert.False(t, errors.Is(err, ErrFieldMismatch))

	err = Validate(sale.RawFields{sale.FieldSwapTokenAmount: {}}, expected)
	assert.ErrorIs(t, err, ErrUnsetField)

	var unset *UnsetFieldError
	require.True(t, errors.As(err, &unset))
	assert.Equal(t, sale.FieldSwapTokenAmount, unset.Field)
}

func TestValidate_SkipsUnexpectedFields(t *testing.T) {
	acc := testAccount()
	acc.TempTokenAccountPubkey = testKey(0x99)

	err := ValidateAccount(acc, ExpectedState{
		sale.FieldSwapSolAmount: Integer(2_000_000),
	})
	assert.NoError(t, err)

	assert.NoError(t, ValidateAccount(acc, ExpectedState{}))
}

func TestValidate_FailFastInLayoutOrder(t *testing.T) {
	acc := testAccount()
	expected := ExpectAccount(acc)
	expected[sale.FieldSellerPubkey] = PublicKey(testKey(0x01))
	expected[sale.FieldSwapTokenAmount] = Integer(9)

	err := ValidateAccount(acc, expected)

	var mismatch *FieldMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, sale.FieldSellerPubkey, mismatch.Field)
	assert.Equal(t, PublicKey(testKey(0x01)), mismatch.Expected)
	assert.Equal(t, acc.SellerPubkey.Bytes(), mismatch.Actual)
	assert.Contains(t, err.Error(), "sellerPubkey")
	assert.Contains(t, err.Error(), acc.SellerPubkey.String())
}

func TestValidateAll_CollectsEveryDivergence(t *testing.T) {
	acc := testAccount()
	expected := ExpectAccount(acc)
	expected[sale.FieldSellerPubkey] = PublicKey(testKey(0x01))
	expected[sale.FieldSwapTokenAmount] = Integer(9)

	res := ValidateAll(acc.RawFields(), expected)
	assert.False(t, res.Passed())
	assert.Equal(t, 5, res.Checked)
	require.Len(t, res.Divergences, 2)
	assert.Equal(t, sale.FieldSellerPubkey, res.Divergences[0].Field)
	assert.Equal(t, sale.FieldSwapTokenAmount, res.Divergences[1].Field)

	err := res.Err()
	assert.ErrorIs(t, err, ErrFieldMismatch)
	assert.Contains(t, err.Error(), "swapTokenAmount: expected 9, got 1")
}

func TestValidateAll_MixedErrors(t *testing.T) {
	raw := sale.RawFields{sale.FieldSwapSolAmount: le(5)}
	res := ValidateAll(raw, ExpectedState{
		sale.FieldSwapSolAmount:   Integer(6),
		sale.FieldSwapTokenAmount: Integer(0),
	})

	require.Len(t, res.Divergences, 2)
	err := res.Err()
	assert.ErrorIs(t, err, ErrFieldMismatch)
	assert.ErrorIs(t, err, ErrUnsetField)
	assert.Nil(t, res.Divergences[1].Actual)
}

func TestValidateAll_Passed(t *testing.T) {
	acc := testAccount()
	res := ValidateAll(acc.RawFields(), ExpectAccount(acc))
	assert.True(t, res.Passed())
	assert.NoError(t, res.Err())
}

func TestCheckInitialized(t *testing.T) {
	acc := testAccount()

	got, err := CheckInitialized(acc.Encode())
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	_, err = CheckInitialized(nil)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	acc.IsInitialized = 0
	got, err = CheckInitialized(acc.Encode())
	assert.ErrorIs(t, err, ErrNotInitialized)
	require.NotNil(t, got)

	_, err = CheckInitialized(make([]byte, 80))
	assert.ErrorIs(t, err, sale.ErrMalformedAccount)
}

func TestAfterUpdatePrice_TouchesPriceOnly(t *testing.T) {
	prev := testAccount()
	next := *prev
	next.SwapSolAmount = 3_000_000

	expected := AfterUpdatePrice(prev, 3_000_000)
	assert.NoError(t, ValidateAccount(&next, expected))

	next.SwapTokenAmount = 7
	assert.ErrorIs(t, ValidateAccount(&next, expected), ErrFieldMismatch)
}

func TestAfterInitialize(t *testing.T) {
	acc := testAccount()
	expected := AfterInitialize(acc.SellerPubkey, acc.TempTokenAccountPubkey, acc.SwapSolAmount, acc.SwapTokenAmount)
	assert.NoError(t, ValidateAccount(acc, expected))
}
