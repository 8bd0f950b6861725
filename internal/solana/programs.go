package solana

// Well-known program and sysvar addresses.
var (
	SystemProgramID                 = MustPublicKey("11111111111111111111111111111111")
	TokenProgramID                  = MustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenAccountProgramID = MustPublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	SysvarRentPubkey                = MustPublicKey("SysvarRent111111111111111111111111111111111")
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL uint64 = 1_000_000_000

// FindAssociatedTokenAddress derives the associated token account of wallet for mint.
func FindAssociatedTokenAddress(wallet, mint PublicKey) (PublicKey, error) {
	addr, _, err := FindProgramAddress(AssociatedTokenAccountProgramID,
		wallet[:],
		TokenProgramID[:],
		mint[:],
	)
	return addr, err
}
