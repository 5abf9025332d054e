// Package processor implements the fund program's on-chain state machine.
// Process executes one instruction against a positional account list the
// way the deployed program would: validate everything against PDA
// derivations and the fund metadata record first, then mutate. A failed
// instruction leaves every account untouched.
package processor

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// Clock carries the sysvar values an instruction executes under.
type Clock struct {
	UnixTimestamp int64
	Slot          uint64
}

type Processor struct {
	log *logrus.Entry
}

func New() *Processor {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/fund/processor"),
	}
}

// Process executes one packed instruction. The first three accounts are
// always the transaction signer, the fund metadata PDA and the fund info
// PDA; the remainder are instruction specific.
func (p *Processor) Process(programID ed25519.PublicKey, accounts []*Account, data []byte, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	signer, fundMetadata, fundInfoAccount := accounts[0], accounts[1], accounts[2]

	var fundRecord fund.Fund
	if err := fundRecord.Unmarshal(fundMetadata.Data); err != nil {
		return errors.Wrap(err, "failed to load fund metadata")
	}

	derivedMetadata, err := solana.CreateProgramAddress(
		programID,
		fund.FundMetadataPrefix,
		fund.NameSeed(fundRecord.Name),
		[]byte{fundRecord.MetadataBump},
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(derivedMetadata, fundMetadata.Key) ||
		!bytes.Equal(fundRecord.InfoAccount, fundInfoAccount.Key) ||
		!bytes.Equal(fundMetadata.Owner, programID) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund accounts")
	}
	if !bytes.Equal(fundRecord.FundProgramID, programID) {
		return solana.ErrIncorrectProgramID
	}

	in, err := fund.UnpackFundInstruction(data)
	if err != nil {
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"instruction": in.Type.String(),
		"fund":        fundRecord.Name,
	})
	log.Debug("processing instruction")

	if err := checkAuthority(signer, &fundRecord, fundInfoAccount, instructionPolicy(in.Type)); err != nil {
		return err
	}

	snapshot := snapshotAccounts(accounts)
	if err := p.dispatch(&fundRecord, accounts, in, clock); err != nil {
		restoreAccounts(accounts, snapshot)
		log.WithError(err).Debug("instruction failed")
		return err
	}

	log.Debug("instruction complete")
	return nil
}

func (p *Processor) dispatch(fundRecord *fund.Fund, accounts []*Account, in *fund.FundInstruction, clock Clock) error {
	switch in.Type {
	case fund.InstructionTypeUserInit:
		return p.userInit(fundRecord, accounts)
	case fund.InstructionTypeRequestDeposit:
		return p.requestDeposit(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeCancelDeposit:
		return p.cancelDeposit(fundRecord, accounts)
	case fund.InstructionTypeRequestWithdrawal:
		return p.requestWithdrawal(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeCancelWithdrawal:
		return p.cancelWithdrawal(fundRecord, accounts)
	case fund.InstructionTypeInit:
		return p.initFund(fundRecord, accounts, in.Step, clock)
	case fund.InstructionTypeSetDepositSchedule:
		return p.setDepositSchedule(fundRecord, accounts, &in.Schedule, clock)
	case fund.InstructionTypeDisableDeposits:
		return p.disableDeposits(fundRecord, accounts, clock)
	case fund.InstructionTypeApproveDeposit:
		return p.approveDeposit(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeDenyDeposit:
		return p.denyDeposit(fundRecord, accounts, in.DenyReason, clock)
	case fund.InstructionTypeSetWithdrawalSchedule:
		return p.setWithdrawalSchedule(fundRecord, accounts, &in.Schedule, clock)
	case fund.InstructionTypeDisableWithdrawals:
		return p.disableWithdrawals(fundRecord, accounts, clock)
	case fund.InstructionTypeApproveWithdrawal:
		return p.approveWithdrawal(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeDenyWithdrawal:
		return p.denyWithdrawal(fundRecord, accounts, in.DenyReason, clock)
	case fund.InstructionTypeLockAssets:
		return p.lockAssets(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeUnlockAssets:
		return p.unlockAssets(fundRecord, accounts, in.Amount, clock)
	case fund.InstructionTypeSetAssetsTrackingConfig:
		return p.setAssetsTrackingConfig(fundRecord, accounts, &in.Config, clock)
	case fund.InstructionTypeUpdateAssetsWithVault:
		return p.updateAssetsWithVault(fundRecord, accounts, clock)
	case fund.InstructionTypeUpdateAssetsWithCustody:
		return p.updateAssetsWithCustody(fundRecord, accounts, clock)
	case fund.InstructionTypeAddVault:
		return p.addVault(fundRecord, accounts, in.TargetHash, clock)
	case fund.InstructionTypeRemoveVault:
		return p.removeVault(fundRecord, accounts, in.TargetHash, clock)
	case fund.InstructionTypeAddCustody:
		return p.addCustody(fundRecord, accounts, in.TargetHash, in.CustodyID, in.CustodyType, clock)
	case fund.InstructionTypeRemoveCustody:
		return p.removeCustody(fundRecord, accounts, in.TargetHash, in.CustodyType, clock)
	case fund.InstructionTypeStartLiquidation:
		return p.startLiquidation(fundRecord, accounts, clock)
	case fund.InstructionTypeStopLiquidation:
		return p.stopLiquidation(fundRecord, accounts, clock)
	case fund.InstructionTypeRaydiumSwap:
		return p.raydiumSwap(fundRecord, accounts, in, clock)
	}
	return solana.ErrInvalidInstructionData
}

// authorityPolicy is the caller class an instruction demands, evaluated
// once per dispatch. Per-handler checks still bind user instructions to
// the accounts they touch.
type authorityPolicy int

const (
	// policySignerOnly admits any caller; the handler authenticates the
	// user against the accounts it mutates.
	policySignerOnly authorityPolicy = iota
	// policyAdmin admits the fund admin only.
	policyAdmin
	// policyAdminOrManager admits the fund admin or the fund manager.
	policyAdminOrManager
	// policyAdminOrManagerUnlessLiquidating admits the admin or manager
	// while the fund operates normally, and any signer once liquidation
	// has started, so holders can exit without the manager.
	policyAdminOrManagerUnlessLiquidating
)

func instructionPolicy(t fund.InstructionType) authorityPolicy {
	switch t {
	case fund.InstructionTypeUserInit,
		fund.InstructionTypeRequestDeposit,
		fund.InstructionTypeCancelDeposit,
		fund.InstructionTypeRequestWithdrawal,
		fund.InstructionTypeCancelWithdrawal,
		fund.InstructionTypeUpdateAssetsWithVault,
		fund.InstructionTypeUpdateAssetsWithCustody:
		return policySignerOnly
	case fund.InstructionTypeInit,
		fund.InstructionTypeAddVault,
		fund.InstructionTypeRemoveVault,
		fund.InstructionTypeAddCustody,
		fund.InstructionTypeRemoveCustody,
		fund.InstructionTypeStopLiquidation:
		return policyAdmin
	case fund.InstructionTypeApproveWithdrawal,
		fund.InstructionTypeUnlockAssets:
		return policyAdminOrManagerUnlessLiquidating
	}
	return policyAdminOrManager
}

func checkAuthority(signer *Account, fundRecord *fund.Fund, fundInfoAccount *Account, policy authorityPolicy) error {
	if policy == policySignerOnly {
		return nil
	}

	if policy == policyAdminOrManagerUnlessLiquidating {
		var info fund.FundInfo
		if err := info.Unmarshal(fundInfoAccount.Data); err == nil && info.IsLiquidating() {
			if !signer.IsSigner {
				return solana.ErrMissingRequiredSignature
			}
			return nil
		}
	}

	allowed := bytes.Equal(signer.Key, fundRecord.AdminAccount)
	if !allowed && policy != policyAdmin {
		allowed = bytes.Equal(signer.Key, fundRecord.FundManager)
	}
	if !allowed {
		if policy == policyAdmin {
			return errors.Wrap(solana.ErrIllegalOwner, "instruction must be performed by the admin")
		}
		return errors.Wrap(solana.ErrIllegalOwner, "instruction must be performed by the admin or manager")
	}
	if !signer.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	return nil
}

type accountSnapshot struct {
	owner    ed25519.PublicKey
	lamports uint64
	data     []byte
}

func snapshotAccounts(accounts []*Account) []accountSnapshot {
	snapshots := make([]accountSnapshot, len(accounts))
	for i, account := range accounts {
		data := make([]byte, len(account.Data))
		copy(data, account.Data)
		snapshots[i] = accountSnapshot{
			owner:    account.Owner,
			lamports: account.Lamports,
			data:     data,
		}
	}
	return snapshots
}

func restoreAccounts(accounts []*Account, snapshots []accountSnapshot) {
	for i, account := range accounts {
		account.Owner = snapshots[i].owner
		account.Lamports = snapshots[i].lamports
		account.Data = snapshots[i].data
	}
}
