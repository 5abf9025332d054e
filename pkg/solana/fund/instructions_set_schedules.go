package fund

import (
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

type SetScheduleInstructionArgs struct {
	Schedule FundSchedule
}

type AdminInstructionAccounts struct {
	Admin        ed25519.PublicKey
	FundMetadata ed25519.PublicKey
	FundInfo     ed25519.PublicKey
}

func adminAccountMetas(accounts *AdminInstructionAccounts) []solana.AccountMeta {
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
	}
}

func NewSetDepositScheduleInstruction(
	program ed25519.PublicKey,
	accounts *AdminInstructionAccounts,
	args *SetScheduleInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, SetDepositScheduleLen)

	binary.PutUint8(data, uint8(InstructionTypeSetDepositSchedule), &offset)
	args.Schedule.pack(data, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: adminAccountMetas(accounts),
	}
}

func NewSetWithdrawalScheduleInstruction(
	program ed25519.PublicKey,
	accounts *AdminInstructionAccounts,
	args *SetScheduleInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, SetWithdrawalScheduleLen)

	binary.PutUint8(data, uint8(InstructionTypeSetWithdrawalSchedule), &offset)
	args.Schedule.pack(data, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: adminAccountMetas(accounts),
	}
}

func NewDisableDepositsInstruction(
	program ed25519.PublicKey,
	accounts *AdminInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, DisableDepositsLen)

	binary.PutUint8(data, uint8(InstructionTypeDisableDeposits), &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: adminAccountMetas(accounts),
	}
}

func NewDisableWithdrawalsInstruction(
	program ed25519.PublicKey,
	accounts *AdminInstructionAccounts,
) solana.Instruction {
	var offset int

	data := make([]byte, DisableWithdrawalsLen)

	binary.PutUint8(data, uint8(InstructionTypeDisableWithdrawals), &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: adminAccountMetas(accounts),
	}
}

type SetAssetsTrackingConfigInstructionArgs struct {
	Config FundAssetsTrackingConfig
}

func NewSetAssetsTrackingConfigInstruction(
	program ed25519.PublicKey,
	accounts *AdminInstructionAccounts,
	args *SetAssetsTrackingConfigInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, SetAssetsTrackingConfigLen)

	binary.PutUint8(data, uint8(InstructionTypeSetAssetsTrackingConfig), &offset)
	args.Config.pack(data, &offset)

	return solana.Instruction{
		Program:  program,
		Data:     data,
		Accounts: adminAccountMetas(accounts),
	}
}
