package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type DenyWithdrawalInstructionArgs struct {
	// Reason recorded in the user's deny_reason field. Truncated to
	// MaxNameLength bytes on the wire.
	DenyReason string
}

type DenyWithdrawalInstructionAccounts struct {
	Admin           ed25519.PublicKey
	FundMetadata    ed25519.PublicKey
	FundInfo        ed25519.PublicKey
	User            ed25519.PublicKey
	UserInfo        ed25519.PublicKey
	CustodyMetadata ed25519.PublicKey
}

func NewDenyWithdrawalInstruction(
	program ed25519.PublicKey,
	accounts *DenyWithdrawalInstructionAccounts,
	args *DenyWithdrawalInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, DenyWithdrawalLen)

	binary.PutUint8(data, uint8(InstructionTypeDenyWithdrawal), &offset)
	binary.PutFixedString(data, args.DenyReason, MaxNameLength, &offset)

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
				PublicKey:  accounts.User,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyMetadata,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
