package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type RaydiumSwapInstructionArgs struct {
	TokenAAmountIn    uint64
	TokenBAmountIn    uint64
	MinTokenAmountOut uint64
}

type RaydiumSwapInstructionAccounts struct {
	Admin         ed25519.PublicKey
	FundMetadata  ed25519.PublicKey
	FundInfo      ed25519.PublicKey
	FundAuthority ed25519.PublicKey
}

// NewRaydiumSwapInstruction swaps between two trading custodies through a
// Raydium pool. The pool's own accounts follow the fund accounts and are
// forwarded to the AMM program unchanged.
func NewRaydiumSwapInstruction(
	program ed25519.PublicKey,
	accounts *RaydiumSwapInstructionAccounts,
	poolAccounts []solana.AccountMeta,
	args *RaydiumSwapInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, RaydiumSwapLen)

	binary.PutUint8(data, uint8(InstructionTypeRaydiumSwap), &offset)
	binary.PutUint64(data, args.TokenAAmountIn, &offset)
	binary.PutUint64(data, args.TokenBAmountIn, &offset)
	binary.PutUint64(data, args.MinTokenAmountOut, &offset)

	metas := []solana.AccountMeta{
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
	}
	metas = append(metas, poolAccounts...)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: metas,
	}
}
