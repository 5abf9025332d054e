package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type LiquidationInstructionAccounts struct {
	Admin            ed25519.PublicKey
	FundMetadata     ed25519.PublicKey
	FundInfo         ed25519.PublicKey
	LiquidationState ed25519.PublicKey
}

func liquidationAccountMetas(accounts *LiquidationInstructionAccounts) []solana.AccountMeta {
	return []solana.AccountMeta{
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
			PublicKey:  accounts.LiquidationState,
			IsWritable: true,
			IsSigner:   false,
		},
	}
}

// NewStartLiquidationInstruction puts the fund into liquidation mode,
// which suspends schedule and limit checks on withdrawals.
func NewStartLiquidationInstruction(
	program ed25519.PublicKey,
	accounts *LiquidationInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, StartLiquidationLen)

	binary.PutUint8(data, uint8(InstructionTypeStartLiquidation), &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: liquidationAccountMetas(accounts),
	}
}

func NewStopLiquidationInstruction(
	program ed25519.PublicKey,
	accounts *LiquidationInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, StopLiquidationLen)

	binary.PutUint8(data, uint8(InstructionTypeStopLiquidation), &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: liquidationAccountMetas(accounts),
	}
}
