package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type VaultInstructionArgs struct {
	// TargetHash is the vault set hash expected after the change.
	TargetHash uint64
}

type VaultInstructionAccounts struct {
	Admin            ed25519.PublicKey
	FundMetadata     ed25519.PublicKey
	FundInfo         ed25519.PublicKey
	VaultsAssetsInfo ed25519.PublicKey
	Vault            ed25519.PublicKey
}

func vaultAccountMetas(accounts *VaultInstructionAccounts) []solana.AccountMeta {
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
			PublicKey:  accounts.VaultsAssetsInfo,
			IsWritable: true,
			IsSigner:   false,
		},
		{
			PublicKey:  accounts.Vault,
			IsWritable: false,
			IsSigner:   false,
		},
	}
}

func NewAddVaultInstruction(
	program ed25519.PublicKey,
	accounts *VaultInstructionAccounts,
	args *VaultInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, AddVaultLen)

	binary.PutUint8(data, uint8(InstructionTypeAddVault), &offset)
	binary.PutUint64(data, args.TargetHash, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: vaultAccountMetas(accounts),
	}
}

func NewRemoveVaultInstruction(
	program ed25519.PublicKey,
	accounts *VaultInstructionAccounts,
	args *VaultInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, RemoveVaultLen)

	binary.PutUint8(data, uint8(InstructionTypeRemoveVault), &offset)
	binary.PutUint64(data, args.TargetHash, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: vaultAccountMetas(accounts),
	}
}
