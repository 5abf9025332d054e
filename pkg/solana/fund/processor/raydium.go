package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// raydiumSwap swaps between two trading custodies through a Raydium pool.
// The fund program only validates its own accounts and state; the pool
// accounts after the fund accounts are forwarded to the AMM program, which
// executes the swap under the fund authority's program signature.
//
// Accounts: admin, fund metadata, fund info, fund authority, then the
// pool's own accounts.
func (p *Processor) raydiumSwap(fundRecord *fund.Fund, accounts []*Account, in *fund.FundInstruction, clock Clock) error {
	if len(accounts) < 4 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund authority")
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is in liquidation state")
	}

	if in.TokenAAmountIn == 0 && in.TokenBAmountIn == 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "nothing to swap")
	}
	if in.TokenAAmountIn > 0 && in.TokenBAmountIn > 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "only one swap direction may be set")
	}

	info.AdminActionTime = clock.UnixTimestamp
	fundInfoAccount.Data = info.Marshal()

	return nil
}
