package instruction

import (
	"fmt"

	"solana-token-sale/internal/solana"
)

// SalePDASeed is the seed of the program-derived authority over the temp token account.
const SalePDASeed = "token_sale"

// SalePDA derives the sale authority address for program.
func SalePDA(program solana.PublicKey) (solana.PublicKey, uint8, error) {
	pda, bump, err := solana.FindProgramAddress(program, []byte(SalePDASeed))
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive sale pda: %w", err)
	}
	return pda, bump, nil
}

type InitializeSaleInstructionArgs struct {
	PricePerToken uint64
	MinBuy        uint64
}

type InitializeSaleInstructionAccounts struct {
	Seller           solana.PublicKey
	TempTokenAccount solana.PublicKey
	SaleAccount      solana.PublicKey
}

func NewInitializeSaleInstruction(
	program solana.PublicKey,
	accounts *InitializeSaleInstructionAccounts,
	args *InitializeSaleInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: InitializeSaleData(args.PricePerToken, args.MinBuy),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Seller,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.TempTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SaleAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  solana.SysvarRentPubkey,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  solana.TokenProgramID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type BuyInstructionArgs struct {
	Amount uint64
}

// BuyInstructionAccounts lists the accounts of a Buy. SalePDA must be
// SalePDA(program); NewBuyInstruction does not derive it.
type BuyInstructionAccounts struct {
	Buyer             solana.PublicKey
	Seller            solana.PublicKey
	TempTokenAccount  solana.PublicKey
	SaleAccount       solana.PublicKey
	BuyerTokenAccount solana.PublicKey
	Mint              solana.PublicKey
	SalePDA           solana.PublicKey
}

func NewBuyInstruction(
	program solana.PublicKey,
	accounts *BuyInstructionAccounts,
	args *BuyInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: BuyData(args.Amount),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Buyer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Seller,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TempTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SaleAccount,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  solana.SystemProgramID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.BuyerTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  solana.TokenProgramID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SalePDA,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

type CloseSaleInstructionAccounts struct {
	Seller             solana.PublicKey
	SellerTokenAccount solana.PublicKey
	TempTokenAccount   solana.PublicKey
	SalePDA            solana.PublicKey
	SaleAccount        solana.PublicKey
}

func NewCloseSaleInstruction(
	program solana.PublicKey,
	accounts *CloseSaleInstructionAccounts,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: CloseSaleData(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Seller,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SellerTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TempTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  solana.TokenProgramID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SalePDA,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SaleAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

type UpdatePriceInstructionArgs struct {
	NewPrice uint64
}

type UpdatePriceInstructionAccounts struct {
	Seller      solana.PublicKey
	SaleAccount solana.PublicKey
}

func NewUpdatePriceInstruction(
	program solana.PublicKey,
	accounts *UpdatePriceInstructionAccounts,
	args *UpdatePriceInstructionArgs,
) solana.Instruction {
	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: UpdatePriceData(args.NewPrice),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Seller,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.SaleAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

// New builds an instruction of type t over a caller-supplied account list.
// The accounts are copied and kept in the given order.
func New(program solana.PublicKey, t InstructionType, accounts []solana.AccountMeta, args ...uint64) (solana.Instruction, error) {
	data, err := EncodeData(t, args...)
	if err != nil {
		return solana.Instruction{}, err
	}
	return solana.NewInstruction(program, data, append([]solana.AccountMeta(nil), accounts...)...), nil
}

var accountLabels = map[InstructionType][]string{
	InstructionTypeInitializeSale: {"seller", "temp token account", "sale account", "rent sysvar", "token program"},
	InstructionTypeBuy: {"buyer", "seller", "temp token account", "sale account", "system program",
		"buyer token account", "token program", "mint", "sale pda"},
	InstructionTypeCloseSale:   {"seller", "seller token account", "temp token account", "token program", "sale pda", "sale account"},
	InstructionTypeUpdatePrice: {"seller", "sale account"},
}

// AccountLabels names the positions of the account list of t.
func AccountLabels(t InstructionType) []string {
	return append([]string(nil), accountLabels[t]...)
}
