package processor

import (
	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// Schedule and tracking-config instructions share the minimal account set:
// admin, fund metadata, fund info.

func (p *Processor) setDepositSchedule(fundRecord *fund.Fund, accounts []*Account, schedule *fund.FundSchedule, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	if schedule.StartTime >= schedule.EndTime {
		return errors.Wrap(solana.ErrInvalidArgument, "schedule start time must precede end time")
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}

	info.DepositSchedule = *schedule
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

func (p *Processor) setWithdrawalSchedule(fundRecord *fund.Fund, accounts []*Account, schedule *fund.FundSchedule, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	if schedule.StartTime >= schedule.EndTime {
		return errors.Wrap(solana.ErrInvalidArgument, "schedule start time must precede end time")
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}

	info.WithdrawalSchedule = *schedule
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

// disableDeposits zeroes the deposit schedule, closing the window until a
// new schedule is set.
func (p *Processor) disableDeposits(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}

	info.DepositSchedule = fund.FundSchedule{}
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

// disableWithdrawals zeroes the withdrawal schedule, closing the window
// until a new schedule is set.
func (p *Processor) disableWithdrawals(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}

	info.WithdrawalSchedule = fund.FundSchedule{}
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

func (p *Processor) setAssetsTrackingConfig(fundRecord *fund.Fund, accounts []*Account, config *fund.FundAssetsTrackingConfig, clock Clock) error {
	if len(accounts) < 3 {
		return solana.ErrNotEnoughAccountKeys
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}

	info.AssetsConfig = *config
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}
