package system

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/askibin/solana-program-library/pkg/solana"
)

type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
	CommandCreateAccountWithSeed
	CommandAdvanceNonceAccount
	CommandWithdrawNonceAccount
	CommandInitializeNonceAccount
	CommandAuthorizeNonceAccount
	CommandAllocate
)

// ProgramKey is the address of the system program: 11111111111111111111111111111111
var ProgramKey [32]byte

// RentSysVar is the address of the rent sysvar: SysvarRent111111111111111111111111111111111
var RentSysVar = ed25519.PublicKey{6, 167, 213, 23, 25, 44, 86, 142, 224, 138, 132, 95, 115, 210, 151, 136, 207, 3, 92, 49, 69, 178, 26, 179, 68, 216, 6, 46, 169, 64, 0, 0}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[WRITE, SIGNER]` Funding account
	//   1. `[WRITE, SIGNER]` New account
	data := make([]byte, 4+8+8+32)
	binary.LittleEndian.PutUint32(data, uint32(CommandCreateAccount))
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[12:], size)
	copy(data[20:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}
