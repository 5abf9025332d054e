package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// Program execution errors, mirroring the runtime's ProgramError variants.
// A handler returning any of these aborts the whole instruction; the host
// guarantees no partial state is committed.
//
// Reference: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/program_error.rs
var (
	ErrInvalidArgument           = errors.New("InvalidArgument")
	ErrInvalidInstructionData    = errors.New("InvalidInstructionData")
	ErrInvalidAccountData        = errors.New("InvalidAccountData")
	ErrInsufficientFunds         = errors.New("InsufficientFunds")
	ErrIncorrectProgramID        = errors.New("IncorrectProgramId")
	ErrMissingRequiredSignature  = errors.New("MissingRequiredSignature")
	ErrAccountAlreadyInitialized = errors.New("AccountAlreadyInitialized")
	ErrUninitializedAccount      = errors.New("UninitializedAccount")
	ErrNotEnoughAccountKeys      = errors.New("NotEnoughAccountKeys")
	ErrIllegalOwner              = errors.New("IllegalOwner")
	ErrArithmeticOverflow        = errors.New("ArithmeticOverflow")
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", int(c))
}

// IsCustomError reports whether err is the given program-specific error code.
func IsCustomError(err error, code CustomError) bool {
	ce, ok := errors.Cause(err).(CustomError)
	return ok && ce == code
}
