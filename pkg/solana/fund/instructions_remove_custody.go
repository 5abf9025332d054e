package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/system"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type RemoveCustodyInstructionArgs struct {
	// TargetHash is the custody set hash expected after this custody's
	// token account is removed.
	TargetHash  uint64
	CustodyType CustodyType
}

type RemoveCustodyInstructionAccounts struct {
	Admin               ed25519.PublicKey
	FundMetadata        ed25519.PublicKey
	FundInfo            ed25519.PublicKey
	FundAuthority       ed25519.PublicKey
	CustodiesAssetsInfo ed25519.PublicKey
	CustodyTokenAccount ed25519.PublicKey
	CustodyFeesAccount  ed25519.PublicKey
	CustodyMetadata     ed25519.PublicKey
	ReceiverTokenAccount ed25519.PublicKey
}

func NewRemoveCustodyInstruction(
	program ed25519.PublicKey,
	accounts *RemoveCustodyInstructionAccounts,
	args *RemoveCustodyInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, RemoveCustodyLen)

	binary.PutUint8(data, uint8(InstructionTypeRemoveCustody), &offset)
	binary.PutUint64(data, args.TargetHash, &offset)
	binary.PutUint8(data, uint8(args.CustodyType), &offset)

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
				PublicKey:  accounts.CustodiesAssetsInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyFeesAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyMetadata,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.ReceiverTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
