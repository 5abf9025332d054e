package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/system"
)

type UserInitInstructionAccounts struct {
	User           ed25519.PublicKey
	FundMetadata   ed25519.PublicKey
	FundInfo       ed25519.PublicKey
	UserInfo       ed25519.PublicKey
	CustodyMetadata ed25519.PublicKey
}

func NewUserInitInstruction(
	program ed25519.PublicKey,
	accounts *UserInitInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, UserInitLen)

	binary.PutUint8(data, uint8(InstructionTypeUserInit), &offset)

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
				PublicKey:  accounts.UserInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyMetadata,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  system.ProgramKey[:],
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
