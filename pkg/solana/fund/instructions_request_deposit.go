package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

type RequestDepositInstructionArgs struct {
	// Amount of deposit tokens to add to the fund. Zero requests the
	// user's entire token balance net of the deposit fee.
	Amount uint64
}

type RequestDepositInstructionAccounts struct {
	User                 ed25519.PublicKey
	FundMetadata         ed25519.PublicKey
	FundInfo             ed25519.PublicKey
	FundAuthority        ed25519.PublicKey
	FundTokenMint        ed25519.PublicKey
	UserInfo             ed25519.PublicKey
	UserDepositToken     ed25519.PublicKey
	UserFundToken        ed25519.PublicKey
	CustodyTokenAccount  ed25519.PublicKey
	CustodyFeesAccount   ed25519.PublicKey
	CustodyMetadata      ed25519.PublicKey
	OraclePriceAccount   ed25519.PublicKey
}

func NewRequestDepositInstruction(
	program ed25519.PublicKey,
	accounts *RequestDepositInstructionAccounts,
	args *RequestDepositInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, RequestDepositLen)

	binary.PutUint8(data, uint8(InstructionTypeRequestDeposit), &offset)
	binary.PutUint64(data, args.Amount, &offset)

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
				PublicKey:  accounts.FundTokenMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserDepositToken,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.UserFundToken,
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
