package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type CancelWithdrawalInstructionAccounts struct {
	User            ed25519.PublicKey
	FundMetadata    ed25519.PublicKey
	FundInfo        ed25519.PublicKey
	UserInfo        ed25519.PublicKey
	UserFundToken   ed25519.PublicKey
	CustodyMetadata ed25519.PublicKey
}

func NewCancelWithdrawalInstruction(
	program ed25519.PublicKey,
	accounts *CancelWithdrawalInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, CancelWithdrawalLen)

	binary.PutUint8(data, uint8(InstructionTypeCancelWithdrawal), &offset)

	return solana.Instruction{
		Program: program,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.User,
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
				PublicKey:  token.ProgramKey,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserFundToken,
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
