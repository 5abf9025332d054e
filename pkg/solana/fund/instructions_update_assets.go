package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type UpdateAssetsWithVaultInstructionAccounts struct {
	Wallet             ed25519.PublicKey
	FundMetadata       ed25519.PublicKey
	FundInfo           ed25519.PublicKey
	VaultsAssetsInfo   ed25519.PublicKey
	Vault              ed25519.PublicKey
	OraclePriceAccount ed25519.PublicKey
}

// NewUpdateAssetsWithVaultInstruction folds one vault's value into the
// running vault assets cycle. Permissionless, any wallet can crank it.
func NewUpdateAssetsWithVaultInstruction(
	program ed25519.PublicKey,
	accounts *UpdateAssetsWithVaultInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, UpdateAssetsWithVaultLen)

	binary.PutUint8(data, uint8(InstructionTypeUpdateAssetsWithVault), &offset)

	return solana.Instruction{
		Program: program,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Wallet,
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
				PublicKey:  accounts.VaultsAssetsInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
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

type UpdateAssetsWithCustodyInstructionAccounts struct {
	Wallet              ed25519.PublicKey
	FundMetadata        ed25519.PublicKey
	FundInfo            ed25519.PublicKey
	CustodiesAssetsInfo ed25519.PublicKey
	CustodyTokenAccount ed25519.PublicKey
	CustodyMetadata     ed25519.PublicKey
	OraclePriceAccount  ed25519.PublicKey
}

// NewUpdateAssetsWithCustodyInstruction folds one custody's value into the
// running custody assets cycle. Permissionless, any wallet can crank it.
func NewUpdateAssetsWithCustodyInstruction(
	program ed25519.PublicKey,
	accounts *UpdateAssetsWithCustodyInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, UpdateAssetsWithCustodyLen)

	binary.PutUint8(data, uint8(InstructionTypeUpdateAssetsWithCustody), &offset)

	return solana.Instruction{
		Program: program,

		Data: data,

		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Wallet,
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
				PublicKey:  accounts.CustodiesAssetsInfo,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CustodyTokenAccount,
				IsWritable: false,
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
