package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// startLiquidation puts the fund into liquidation mode. While liquidating,
// withdrawal schedule windows and USD limits are suspended, requests settle
// immediately and custody changes are refused.
//
// Accounts: admin, fund metadata, fund info, liquidation state.
func (p *Processor) startLiquidation(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	info, err := p.checkLiquidationAccounts(fundRecord, accounts)
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is already in liquidation state")
	}

	info.LiquidationStartTime = clock.UnixTimestamp
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

// stopLiquidation returns the fund to normal operation.
func (p *Processor) stopLiquidation(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	info, err := p.checkLiquidationAccounts(fundRecord, accounts)
	if err != nil {
		return err
	}
	if !info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is not in liquidation state")
	}

	info.LiquidationStartTime = 0
	info.AdminActionTime = clock.UnixTimestamp
	accounts[2].Data = info.Marshal()

	return nil
}

func (p *Processor) checkLiquidationAccounts(fundRecord *fund.Fund, accounts []*Account) (*fund.FundInfo, error) {
	if len(accounts) < 4 {
		return nil, solana.ErrNotEnoughAccountKeys
	}
	if !bytes.Equal(fundRecord.LiquidationState, accounts[3].Key) {
		return nil, errors.Wrap(solana.ErrInvalidArgument, "invalid liquidation state account")
	}
	return loadFundInfo(accounts[2])
}
