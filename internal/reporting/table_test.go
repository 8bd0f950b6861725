package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/instruction"
	"solana-token-sale/internal/monitor"
	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
)

func TestWriteAccountTable(t *testing.T) {
	acc := &sale.TokenSaleAccount{
		IsInitialized:          1,
		SellerPubkey:           solana.SystemProgramID,
		TempTokenAccountPubkey: solana.TokenProgramID,
		SwapSolAmount:          20_000_000,
		SwapTokenAmount:        5,
	}
	var buf bytes.Buffer
	WriteAccountTable(&buf, &monitor.Inspection{Address: solana.SysvarRentPubkey, Slot: 77, Account: acc})

	out := buf.String()
	for _, want := range []string{
		solana.SysvarRentPubkey.String(),
		"sellerPubkey",
		solana.TokenProgramID.String(),
		"20000000",
		"0.02",
		"77",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteAccountTable_NoAccount(t *testing.T) {
	var buf bytes.Buffer
	WriteAccountTable(&buf, &monitor.Inspection{Address: solana.SysvarRentPubkey})
	assert.NotContains(t, buf.String(), "swapSolAmount")
}

func TestWriteBalanceTable(t *testing.T) {
	var buf bytes.Buffer
	WriteBalanceTable(&buf, []monitor.Balance{
		{Name: "buyer", Address: solana.SystemProgramID, Lamports: 1_500_000_000},
		{Name: "temp", Address: solana.TokenProgramID, Token: &solana.TokenAmount{Amount: 42}},
	})

	out := buf.String()
	assert.Contains(t, out, "buyer")
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "42")
}

func TestWriteCheckTable(t *testing.T) {
	var buf bytes.Buffer
	WriteCheckTable(&buf, []*domain.CheckRecord{
		{Source: domain.CheckSourceVerify, Slot: 5, Passed: true, Checked: 5},
		{Source: domain.CheckSourceVerify, Slot: 6, Checked: 5, Failed: 1, Field: "swapSolAmount", Expected: "1", Actual: "2"},
		{Source: domain.CheckSourceConfirmClosed, Slot: 7, Error: "sale account still exists"},
	})

	out := buf.String()
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "5/5")
	assert.Contains(t, out, "swapSolAmount: expected 1, got 2")
	assert.Contains(t, out, "sale account still exists")
}

func TestWriteInstructionTable(t *testing.T) {
	ix := instruction.NewUpdatePriceInstruction(solana.TokenProgramID,
		&instruction.UpdatePriceInstructionAccounts{Seller: solana.SystemProgramID, SaleAccount: solana.SysvarRentPubkey},
		&instruction.UpdatePriceInstructionArgs{NewPrice: 256},
	)

	var buf bytes.Buffer
	WriteInstructionTable(&buf, ix, instruction.AccountLabels(instruction.InstructionTypeUpdatePrice))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "program: "+solana.TokenProgramID.String()))
	assert.Contains(t, out, "data:    030001000000000000")
	assert.Contains(t, out, "sale account")
	assert.Contains(t, out, solana.SysvarRentPubkey.String())
}
