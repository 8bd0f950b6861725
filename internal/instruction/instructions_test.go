package instruction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-sale/internal/solana"
)

func key(fill byte) solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = fill
	}
	return pk
}

var testProgram = key(0xEE)

type metaExpectation struct {
	key      solana.PublicKey
	signer   bool
	writable bool
}

func assertAccounts(t *testing.T, want []metaExpectation, got []solana.AccountMeta) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.key, got[i].PublicKey, "account %d key", i)
		assert.Equal(t, w.signer, got[i].IsSigner, "account %d signer", i)
		assert.Equal(t, w.writable, got[i].IsWritable, "account %d writable", i)
	}
}

func TestNewInitializeSaleInstruction(t *testing.T) {
	ix := NewInitializeSaleInstruction(testProgram,
		&InitializeSaleInstructionAccounts{
			Seller:           key(1),
			TempTokenAccount: key(2),
			SaleAccount:      key(3),
		},
		&InitializeSaleInstructionArgs{PricePerToken: 20_000_000, MinBuy: 0},
	)

	assert.Equal(t, testProgram, ix.Program)
	assert.Equal(t, InitializeSaleData(20_000_000, 0), ix.Data)
	assertAccounts(t, []metaExpectation{
		{key(1), true, false},
		{key(2), false, true},
		{key(3), false, true},
		{solana.SysvarRentPubkey, false, false},
		{solana.TokenProgramID, false, false},
	}, ix.Accounts)
}

func TestNewBuyInstruction(t *testing.T) {
	ix := NewBuyInstruction(testProgram,
		&BuyInstructionAccounts{
			Buyer:             key(1),
			Seller:            key(2),
			TempTokenAccount:  key(3),
			SaleAccount:       key(4),
			BuyerTokenAccount: key(5),
			Mint:              key(6),
			SalePDA:           key(7),
		},
		&BuyInstructionArgs{Amount: 10},
	)

	assert.Equal(t, []byte{1, 10, 0, 0, 0, 0, 0, 0, 0}, ix.Data)
	assertAccounts(t, []metaExpectation{
		{key(1), true, true},
		{key(2), false, true},
		{key(3), false, true},
		{key(4), false, false},
		{solana.SystemProgramID, false, false},
		{key(5), false, true},
		{solana.TokenProgramID, false, false},
		{key(6), false, false},
		{key(7), false, false},
	}, ix.Accounts)
}

func TestNewCloseSaleInstruction(t *testing.T) {
	ix := NewCloseSaleInstruction(testProgram, &CloseSaleInstructionAccounts{
		Seller:             key(1),
		SellerTokenAccount: key(2),
		TempTokenAccount:   key(3),
		SalePDA:            key(4),
		SaleAccount:        key(5),
	})

	assert.Equal(t, []byte{2}, ix.Data)
	assertAccounts(t, []metaExpectation{
		{key(1), true, true},
		{key(2), false, true},
		{key(3), false, true},
		{solana.TokenProgramID, false, false},
		{key(4), false, false},
		{key(5), false, true},
	}, ix.Accounts)
}

func TestNewUpdatePriceInstruction(t *testing.T) {
	ix := NewUpdatePriceInstruction(testProgram,
		&UpdatePriceInstructionAccounts{Seller: key(1), SaleAccount: key(2)},
		&UpdatePriceInstructionArgs{NewPrice: 256},
	)

	assert.Equal(t, []byte{3, 0, 1, 0, 0, 0, 0, 0, 0}, ix.Data)
	assertAccounts(t, []metaExpectation{
		{key(1), true, true},
		{key(2), false, true},
	}, ix.Accounts)
}

func TestSalePDA(t *testing.T) {
	program := solana.MustPublicKey("BPFLoader1111111111111111111111111111111111")

	pda, bump, err := SalePDA(program)
	require.NoError(t, err)
	assert.False(t, pda.IsOnCurve())

	again, err := solana.CreateProgramAddress(program, []byte(SalePDASeed), []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, pda, again)

	other, _, err := SalePDA(testProgram)
	require.NoError(t, err)
	assert.NotEqual(t, pda, other)
}

func TestNew_PreservesOrder(t *testing.T) {
	accounts := []solana.AccountMeta{
		solana.NewReadonlyAccountMeta(key(9), false),
		solana.NewAccountMeta(key(1), true),
		solana.NewReadonlyAccountMeta(key(5), false),
	}

	ix, err := New(testProgram, InstructionTypeBuy, accounts, 3)
	require.NoError(t, err)
	assert.Equal(t, accounts, ix.Accounts)
	assert.Equal(t, BuyData(3), ix.Data)

	accounts[0] = solana.NewAccountMeta(key(7), false)
	assert.Equal(t, key(9), ix.Accounts[0].PublicKey)

	_, err = New(testProgram, InstructionTypeCloseSale, accounts, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAccountLabels_MatchBuilders(t *testing.T) {
	pda, _, err := SalePDA(testProgram)
	require.NoError(t, err)

	cases := map[InstructionType]int{
		InstructionTypeInitializeSale: len(NewInitializeSaleInstruction(testProgram, &InitializeSaleInstructionAccounts{}, &InitializeSaleInstructionArgs{}).Accounts),
		InstructionTypeBuy:            len(NewBuyInstruction(testProgram, &BuyInstructionAccounts{SalePDA: pda}, &BuyInstructionArgs{}).Accounts),
		InstructionTypeCloseSale:      len(NewCloseSaleInstruction(testProgram, &CloseSaleInstructionAccounts{SalePDA: pda}).Accounts),
		InstructionTypeUpdatePrice:    len(NewUpdatePriceInstruction(testProgram, &UpdatePriceInstructionAccounts{}, &UpdatePriceInstructionArgs{}).Accounts),
	}
	for typ, n := range cases {
		assert.Len(t, AccountLabels(typ), n, typ.String())
	}

	labels := AccountLabels(InstructionTypeUpdatePrice)
	labels[0] = "changed"
	assert.Equal(t, "seller", AccountLabels(InstructionTypeUpdatePrice)[0])
}
