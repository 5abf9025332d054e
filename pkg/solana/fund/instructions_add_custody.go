package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/system"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type AddCustodyInstructionArgs struct {
	// TargetHash is the custody set hash expected after this custody's
	// token account is appended.
	TargetHash  uint64
	CustodyID   uint32
	CustodyType CustodyType
}

type AddCustodyInstructionAccounts struct {
	Admin               ed25519.PublicKey
	FundMetadata        ed25519.PublicKey
	FundInfo            ed25519.PublicKey
	FundAuthority       ed25519.PublicKey
	CustodiesAssetsInfo ed25519.PublicKey
	CustodyTokenAccount ed25519.PublicKey
	CustodyFeesAccount  ed25519.PublicKey
	CustodyMetadata     ed25519.PublicKey
	TokenMint           ed25519.PublicKey
	OraclePriceAccount  ed25519.PublicKey
}

func NewAddCustodyInstruction(
	program ed25519.PublicKey,
	accounts *AddCustodyInstructionAccounts,
	args *AddCustodyInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, AddCustodyLen)

	binary.PutUint8(data, uint8(InstructionTypeAddCustody), &offset)
	binary.PutUint64(data, args.TargetHash, &offset)
	binary.PutUint32(data, args.CustodyID, &offset)
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
				PublicKey:  system.RentSysVar,
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
				PublicKey:  accounts.TokenMint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.OraclePriceAccount,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
