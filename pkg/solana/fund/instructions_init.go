package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/system"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type InitInstructionArgs struct {
	// Step selects the initialization stage for multi-transaction
	// bootstraps. Zero runs the full initialization.
	Step uint64
}

type InitInstructionAccounts struct {
	Admin               ed25519.PublicKey
	FundMetadata        ed25519.PublicKey
	FundInfo            ed25519.PublicKey
	FundAuthority       ed25519.PublicKey
	FundProgram         ed25519.PublicKey
	FundTokenMint       ed25519.PublicKey
	VaultsAssetsInfo    ed25519.PublicKey
	CustodiesAssetsInfo ed25519.PublicKey
	LiquidationState    ed25519.PublicKey
}

func NewInitInstruction(
	program ed25519.PublicKey,
	accounts *InitInstructionAccounts,
	args *InitInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, InitLen)

	binary.PutUint8(data, uint8(InstructionTypeInit), &offset)
	binary.PutUint64(data, args.Step, &offset)

	return solana.Instruction{
		Program: program,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Admin,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.FundMetadata,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.FundInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.FundAuthority,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.FundProgram,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  system.ProgramKey[:],
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  token.ProgramKey,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  system.RentSysVar,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.FundTokenMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.VaultsAssetsInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodiesAssetsInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.LiquidationState,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
