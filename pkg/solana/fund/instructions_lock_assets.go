package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type MoveAssetsInstructionArgs struct {
	// Amount of tokens to move between custodies. Zero moves the entire
	// source custody balance.
	Amount uint64
}

type MoveAssetsInstructionAccounts struct {
	Admin                      ed25519.PublicKey
	FundMetadata               ed25519.PublicKey
	FundInfo                   ed25519.PublicKey
	FundAuthority              ed25519.PublicKey
	WdCustodyTokenAccount      ed25519.PublicKey
	WdCustodyMetadata          ed25519.PublicKey
	TradingCustodyTokenAccount ed25519.PublicKey
	TradingCustodyMetadata     ed25519.PublicKey
}

func moveAssetsAccountMetas(accounts *MoveAssetsInstructionAccounts) []solana.AccountMeta {
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
			PublicKey:  accounts.FundAuthority,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  token.ProgramKey,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.WdCustodyTokenAccount,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.WdCustodyMetadata,
			IsWritable: false,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.TradingCustodyTokenAccount,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.TradingCustodyMetadata,
			IsWritable: false,
			IsSigner:   false,
		},
	}
}

// NewLockAssetsInstruction moves tokens from the deposit/withdraw custody
// into the trading custody.
func NewLockAssetsInstruction(
	program ed25519.PublicKey,
	accounts *MoveAssetsInstructionAccounts,
	args *MoveAssetsInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, LockAssetsLen)

	binary.PutUint8(data, uint8(InstructionTypeLockAssets), &offset)
	binary.PutUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: moveAssetsAccountMetas(accounts),
	}
}

// NewUnlockAssetsInstruction moves tokens from the trading custody back
// into the deposit/withdraw custody.
func NewUnlockAssetsInstruction(
	program ed25519.PublicKey,
	accounts *MoveAssetsInstructionAccounts,
	args *MoveAssetsInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, UnlockAssetsLen)

	binary.PutUint8(data, uint8(InstructionTypeUnlockAssets), &offset)
	binary.PutUint64(data, args.Amount, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: moveAssetsAccountMetas(accounts),
	}
}
