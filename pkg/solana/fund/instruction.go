package fund

import (
	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

// InstructionType is the 1-byte tag that starts every Fund instruction.
type InstructionType uint8

const (
	InstructionTypeUserInit InstructionType = iota
	InstructionTypeRequestDeposit
	InstructionTypeCancelDeposit
	InstructionTypeRequestWithdrawal
	InstructionTypeCancelWithdrawal
	InstructionTypeInit
	InstructionTypeSetDepositSchedule
	InstructionTypeDisableDeposits
	InstructionTypeApproveDeposit
	InstructionTypeDenyDeposit
	InstructionTypeSetWithdrawalSchedule
	InstructionTypeDisableWithdrawals
	InstructionTypeApproveWithdrawal
	InstructionTypeDenyWithdrawal
	InstructionTypeLockAssets
	InstructionTypeUnlockAssets
	InstructionTypeSetAssetsTrackingConfig
	InstructionTypeUpdateAssetsWithVault
	InstructionTypeUpdateAssetsWithCustody
	InstructionTypeAddVault
	InstructionTypeRemoveVault
	InstructionTypeAddCustody
	InstructionTypeRemoveCustody
	InstructionTypeStartLiquidation
	InstructionTypeStopLiquidation
	InstructionTypeRaydiumSwap
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeUserInit:
		return "UserInit"
	case InstructionTypeRequestDeposit:
		return "RequestDeposit"
	case InstructionTypeCancelDeposit:
		return "CancelDeposit"
	case InstructionTypeRequestWithdrawal:
		return "RequestWithdrawal"
	case InstructionTypeCancelWithdrawal:
		return "CancelWithdrawal"
	case InstructionTypeInit:
		return "Init"
	case InstructionTypeSetDepositSchedule:
		return "SetDepositSchedule"
	case InstructionTypeDisableDeposits:
		return "DisableDeposits"
	case InstructionTypeApproveDeposit:
		return "ApproveDeposit"
	case InstructionTypeDenyDeposit:
		return "DenyDeposit"
	case InstructionTypeSetWithdrawalSchedule:
		return "SetWithdrawalSchedule"
	case InstructionTypeDisableWithdrawals:
		return "DisableWithdrawals"
	case InstructionTypeApproveWithdrawal:
		return "ApproveWithdrawal"
	case InstructionTypeDenyWithdrawal:
		return "DenyWithdrawal"
	case InstructionTypeLockAssets:
		return "LockAssets"
	case InstructionTypeUnlockAssets:
		return "UnlockAssets"
	case InstructionTypeSetAssetsTrackingConfig:
		return "SetAssetsTrackingConfig"
	case InstructionTypeUpdateAssetsWithVault:
		return "UpdateAssetsWithVault"
	case InstructionTypeUpdateAssetsWithCustody:
		return "UpdateAssetsWithCustody"
	case InstructionTypeAddVault:
		return "AddVault"
	case InstructionTypeRemoveVault:
		return "RemoveVault"
	case InstructionTypeAddCustody:
		return "AddCustody"
	case InstructionTypeRemoveCustody:
		return "RemoveCustody"
	case InstructionTypeStartLiquidation:
		return "StartLiquidation"
	case InstructionTypeStopLiquidation:
		return "StopLiquidation"
	case InstructionTypeRaydiumSwap:
		return "RaydiumSwap"
	}
	return "Unknown"
}

// Fixed wire sizes per instruction tag. The payload layout is determined
// solely by the tag; there is no length prefix and no extension mechanism.
const (
	UserInitLen                = 1
	RequestDepositLen          = 1 + 8
	CancelDepositLen           = 1
	RequestWithdrawalLen       = 1 + 8
	CancelWithdrawalLen        = 1
	InitLen                    = 1 + 8
	SetDepositScheduleLen      = 1 + FundScheduleSize
	DisableDepositsLen         = 1
	ApproveDepositLen          = 1 + 8
	DenyDepositLen             = 1 + MaxNameLength
	SetWithdrawalScheduleLen   = 1 + FundScheduleSize
	DisableWithdrawalsLen      = 1
	ApproveWithdrawalLen       = 1 + 8
	DenyWithdrawalLen          = 1 + MaxNameLength
	LockAssetsLen              = 1 + 8
	UnlockAssetsLen            = 1 + 8
	SetAssetsTrackingConfigLen = 1 + FundAssetsTrackingConfigSize
	UpdateAssetsWithVaultLen   = 1
	UpdateAssetsWithCustodyLen = 1
	AddVaultLen                = 1 + 8
	RemoveVaultLen             = 1 + 8
	AddCustodyLen              = 1 + 8 + 4 + 1
	RemoveCustodyLen           = 1 + 8 + 1
	StartLiquidationLen        = 1
	StopLiquidationLen         = 1
	RaydiumSwapLen             = 1 + 8 + 8 + 8
)

// FundInstruction is the decoded form of an instruction: the tag plus the
// argument fields that tag uses. Encode/decode is a pure function pair; the
// state machine never touches the wire format directly.
type FundInstruction struct {
	Type InstructionType

	// RequestDeposit, ApproveDeposit, RequestWithdrawal, ApproveWithdrawal,
	// LockAssets, UnlockAssets. Zero means "infer from balance" on requests
	// and "the full pending amount" on approvals.
	Amount uint64

	// Init.
	Step uint64

	// SetDepositSchedule, SetWithdrawalSchedule.
	Schedule FundSchedule

	// SetAssetsTrackingConfig.
	Config FundAssetsTrackingConfig

	// DenyDeposit, DenyWithdrawal. Truncated to MaxNameLength on the wire.
	DenyReason string

	// AddVault, RemoveVault, AddCustody, RemoveCustody.
	TargetHash  uint64
	CustodyID   uint32
	CustodyType CustodyType

	// RaydiumSwap.
	TokenAAmountIn    uint64
	TokenBAmountIn    uint64
	MinTokenAmountOut uint64
}

func instructionLen(t InstructionType) int {
	switch t {
	case InstructionTypeUserInit:
		return UserInitLen
	case InstructionTypeRequestDeposit:
		return RequestDepositLen
	case InstructionTypeCancelDeposit:
		return CancelDepositLen
	case InstructionTypeRequestWithdrawal:
		return RequestWithdrawalLen
	case InstructionTypeCancelWithdrawal:
		return CancelWithdrawalLen
	case InstructionTypeInit:
		return InitLen
	case InstructionTypeSetDepositSchedule:
		return SetDepositScheduleLen
	case InstructionTypeDisableDeposits:
		return DisableDepositsLen
	case InstructionTypeApproveDeposit:
		return ApproveDepositLen
	case InstructionTypeDenyDeposit:
		return DenyDepositLen
	case InstructionTypeSetWithdrawalSchedule:
		return SetWithdrawalScheduleLen
	case InstructionTypeDisableWithdrawals:
		return DisableWithdrawalsLen
	case InstructionTypeApproveWithdrawal:
		return ApproveWithdrawalLen
	case InstructionTypeDenyWithdrawal:
		return DenyWithdrawalLen
	case InstructionTypeLockAssets:
		return LockAssetsLen
	case InstructionTypeUnlockAssets:
		return UnlockAssetsLen
	case InstructionTypeSetAssetsTrackingConfig:
		return SetAssetsTrackingConfigLen
	case InstructionTypeUpdateAssetsWithVault:
		return UpdateAssetsWithVaultLen
	case InstructionTypeUpdateAssetsWithCustody:
		return UpdateAssetsWithCustodyLen
	case InstructionTypeAddVault:
		return AddVaultLen
	case InstructionTypeRemoveVault:
		return RemoveVaultLen
	case InstructionTypeAddCustody:
		return AddCustodyLen
	case InstructionTypeRemoveCustody:
		return RemoveCustodyLen
	case InstructionTypeStartLiquidation:
		return StartLiquidationLen
	case InstructionTypeStopLiquidation:
		return StopLiquidationLen
	case InstructionTypeRaydiumSwap:
		return RaydiumSwapLen
	}
	return 0
}

// Pack encodes the instruction to its fixed-size wire form.
func (i *FundInstruction) Pack() ([]byte, error) {
	size := instructionLen(i.Type)
	if size == 0 {
		return nil, ErrInvalidInstructionData
	}

	b := make([]byte, size)

	var offset int
	binary.PutUint8(b, uint8(i.Type), &offset)

	switch i.Type {
	case InstructionTypeRequestDeposit,
		InstructionTypeRequestWithdrawal,
		InstructionTypeApproveDeposit,
		InstructionTypeApproveWithdrawal,
		InstructionTypeLockAssets,
		InstructionTypeUnlockAssets:
		binary.PutUint64(b, i.Amount, &offset)
	case InstructionTypeInit:
		binary.PutUint64(b, i.Step, &offset)
	case InstructionTypeSetDepositSchedule,
		InstructionTypeSetWithdrawalSchedule:
		i.Schedule.pack(b, &offset)
	case InstructionTypeSetAssetsTrackingConfig:
		i.Config.pack(b, &offset)
	case InstructionTypeDenyDeposit,
		InstructionTypeDenyWithdrawal:
		binary.PutFixedString(b, i.DenyReason, MaxNameLength, &offset)
	case InstructionTypeAddVault,
		InstructionTypeRemoveVault:
		binary.PutUint64(b, i.TargetHash, &offset)
	case InstructionTypeAddCustody:
		binary.PutUint64(b, i.TargetHash, &offset)
		binary.PutUint32(b, i.CustodyID, &offset)
		binary.PutUint8(b, uint8(i.CustodyType), &offset)
	case InstructionTypeRemoveCustody:
		binary.PutUint64(b, i.TargetHash, &offset)
		binary.PutUint8(b, uint8(i.CustodyType), &offset)
	case InstructionTypeRaydiumSwap:
		binary.PutUint64(b, i.TokenAAmountIn, &offset)
		binary.PutUint64(b, i.TokenBAmountIn, &offset)
		binary.PutUint64(b, i.MinTokenAmountOut, &offset)
	}

	return b, nil
}

// UnpackFundInstruction decodes an instruction from its wire form, failing
// on short buffers and unknown tags.
func UnpackFundInstruction(data []byte) (*FundInstruction, error) {
	if len(data) < 1 {
		return nil, ErrInvalidInstructionData
	}

	i := &FundInstruction{Type: InstructionType(data[0])}

	size := instructionLen(i.Type)
	if size == 0 || len(data) != size {
		return nil, ErrInvalidInstructionData
	}

	offset := 1
	switch i.Type {
	case InstructionTypeRequestDeposit,
		InstructionTypeRequestWithdrawal,
		InstructionTypeApproveDeposit,
		InstructionTypeApproveWithdrawal,
		InstructionTypeLockAssets,
		InstructionTypeUnlockAssets:
		binary.GetUint64(data, &i.Amount, &offset)
	case InstructionTypeInit:
		binary.GetUint64(data, &i.Step, &offset)
	case InstructionTypeSetDepositSchedule,
		InstructionTypeSetWithdrawalSchedule:
		i.Schedule.unpack(data, &offset)
	case InstructionTypeSetAssetsTrackingConfig:
		i.Config.unpack(data, &offset)
	case InstructionTypeDenyDeposit,
		InstructionTypeDenyWithdrawal:
		binary.GetFixedString(data, &i.DenyReason, MaxNameLength, &offset)
	case InstructionTypeAddVault,
		InstructionTypeRemoveVault:
		binary.GetUint64(data, &i.TargetHash, &offset)
	case InstructionTypeAddCustody:
		binary.GetUint64(data, &i.TargetHash, &offset)
		binary.GetUint32(data, &i.CustodyID, &offset)
		var custodyType uint8
		binary.GetUint8(data, &custodyType, &offset)
		i.CustodyType = CustodyType(custodyType)
	case InstructionTypeRemoveCustody:
		binary.GetUint64(data, &i.TargetHash, &offset)
		var custodyType uint8
		binary.GetUint8(data, &custodyType, &offset)
		i.CustodyType = CustodyType(custodyType)
	case InstructionTypeRaydiumSwap:
		binary.GetUint64(data, &i.TokenAAmountIn, &offset)
		binary.GetUint64(data, &i.TokenBAmountIn, &offset)
		binary.GetUint64(data, &i.MinTokenAmountOut, &offset)
	}

	return i, nil
}
