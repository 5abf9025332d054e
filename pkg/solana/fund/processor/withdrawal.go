package processor

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// requestWithdrawal removes tokens from the fund. The amount is denominated
// in fund tokens and includes the withdrawal fee. The fund-token share is
// valued in USD against the current NAV and converted back to custody-token
// units through the oracle, because custody balances are multi-asset while
// the fund token is a USD-denominated claim.
//
// When the withdrawal schedule does not require approval, or the fund is
// liquidating, the withdrawal settles immediately. Otherwise the fund
// authority is approved as a delegate on the user's fund token account and
// the request waits for ApproveWithdrawal.
//
// Accounts: user, fund metadata, fund info, fund authority, token program,
// fund token mint, user info, user withdrawal token, user fund token,
// custody token account, custody fees account, custody metadata, oracle
// price.
func (p *Processor) requestWithdrawal(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 13 {
		return solana.ErrNotEnoughAccountKeys
	}
	user := accounts[0]
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	fundTokenMint := accounts[5]
	userInfoAccount := accounts[6]
	userWithdrawalToken := accounts[7]
	userFundToken := accounts[8]
	custodyAccount := accounts[9]
	custodyFeesAccount := accounts[10]
	custodyMetadata := accounts[11]
	oracleAccount := accounts[12]

	if !user.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund authority")
	}
	if err := checkFundTokenMint(fundRecord, fundTokenMint); err != nil {
		return err
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if custody.CustodyType != fund.CustodyTypeDepositWithdraw {
		return errors.Wrap(solana.ErrInvalidArgument, "withdrawals require a deposit-withdraw custody")
	}
	if err := checkWdCustodyAccounts(fundRecord, custody, userWithdrawalToken, custodyAccount, custodyFeesAccount, custodyMetadata, oracleAccount); err != nil {
		return err
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	// Liquidation suspends the schedule window and the USD limit so users
	// can always exit.
	if !info.IsLiquidating() && !info.IsWithdrawalAllowed(clock.UnixTimestamp) {
		return errors.Wrap(fund.ErrorWithdrawalsNotAllowed, "withdrawals from this fund are not allowed at this time")
	}
	if userInfo.DepositRequest.Amount > 0 || userInfo.WithdrawalRequest.Amount > 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "pending request must be approved, denied or canceled first")
	}

	balance, err := userFundToken.TokenBalance()
	if err != nil {
		return err
	}
	amountWithFee := amount
	if amountWithFee == 0 {
		amountWithFee = balance
	}
	if amountWithFee == 0 || amountWithFee > balance {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient user funds")
	}

	mintState, err := fundTokenMint.TokenMint()
	if err != nil {
		return err
	}
	if amountWithFee > mintState.Supply {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient fund token supply")
	}
	withdrawalValueUSD := info.CurrentAssetsUSD * float64(amountWithFee) / float64(mintState.Supply)
	if !info.IsLiquidating() &&
		info.WithdrawalSchedule.LimitUSD > 0 &&
		withdrawalValueUSD > info.WithdrawalSchedule.LimitUSD {
		return errors.Wrap(fund.ErrorWithdrawalLimitExceeded, "withdrawal amount is over the limit")
	}
	if err := checkAssetsUpdateTime(clock.UnixTimestamp, info.AssetsUpdateTime, info.AssetsConfig.MaxUpdateAgeSec); err != nil {
		return err
	}

	userInfo.DenyReason = ""

	if info.WithdrawalSchedule.ApprovalRequired && !info.IsLiquidating() {
		if err := approveDelegate(userFundToken, fundRecord.FundAuthority, user.Key, amountWithFee); err != nil {
			return err
		}
		userInfo.WithdrawalRequest = fund.FundUserAction{
			Time:   clock.UnixTimestamp,
			Amount: amountWithFee,
		}
	} else {
		if err := p.settleWithdrawal(fundRecord, info, custody, settleWithdrawalAccounts{
			fundTokenMint:       fundTokenMint,
			userWithdrawalToken: userWithdrawalToken,
			userFundToken:       userFundToken,
			custodyAccount:      custodyAccount,
			custodyFeesAccount:  custodyFeesAccount,
			oracleAccount:       oracleAccount,
		}, user.Key, amountWithFee, withdrawalValueUSD, clock); err != nil {
			return err
		}
		userInfo.LastWithdrawal = fund.FundUserAction{
			Time:   clock.UnixTimestamp,
			Amount: amountWithFee,
		}
		userInfo.WithdrawalRequest = fund.FundUserAction{}
	}

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

type settleWithdrawalAccounts struct {
	fundTokenMint       *Account
	userWithdrawalToken *Account
	userFundToken       *Account
	custodyAccount      *Account
	custodyFeesAccount  *Account
	oracleAccount       *Account
}

// settleWithdrawal converts the withdrawal's USD value into custody tokens,
// pays the user net of fee and burns the fund tokens. The burn authority is
// the user on the instant path and the fund authority delegate on approval.
func (p *Processor) settleWithdrawal(
	fundRecord *fund.Fund,
	info *fund.FundInfo,
	custody *fund.FundCustody,
	accounts settleWithdrawalAccounts,
	burnAuthority ed25519.PublicKey,
	amountWithFee uint64,
	withdrawalValueUSD float64,
	clock Clock,
) error {
	cfg := info.AssetsConfig
	tokensToRemove, err := assetValueTokens(withdrawalValueUSD, custody.TokenDecimals, cfg.MaxPriceError, cfg.MaxPriceAgeSec, accounts.oracleAccount, clock)
	if err != nil {
		return err
	}
	feeTokens, err := checkedUint64(info.WithdrawalSchedule.Fee * float64(tokensToRemove))
	if err != nil {
		return err
	}
	if feeTokens > tokensToRemove {
		return solana.ErrArithmeticOverflow
	}

	custodyBalance, err := accounts.custodyAccount.TokenBalance()
	if err != nil {
		return err
	}
	if tokensToRemove == 0 || tokensToRemove > custodyBalance {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient funds in the custody")
	}

	if err := transferTokens(accounts.custodyAccount, accounts.userWithdrawalToken, fundRecord.FundAuthority, tokensToRemove-feeTokens); err != nil {
		return err
	}
	if feeTokens > 0 {
		if err := transferTokens(accounts.custodyAccount, accounts.custodyFeesAccount, fundRecord.FundAuthority, feeTokens); err != nil {
			return err
		}
	}
	if err := burnTokens(accounts.userFundToken, accounts.fundTokenMint, burnAuthority, amountWithFee); err != nil {
		return err
	}

	info.AmountRemovedUSD += withdrawalValueUSD
	info.CurrentAssetsUSD -= withdrawalValueUSD
	if info.CurrentAssetsUSD < 0 {
		info.CurrentAssetsUSD = 0
	}

	return nil
}

// approveWithdrawal settles a pending withdrawal request with the fund
// authority burning the user's delegated fund tokens. A zero amount
// approves the full pending amount; a smaller amount settles partially but
// the request is cleared either way.
//
// Accounts: admin, fund metadata, fund info, fund authority, token program,
// fund token mint, user, user info, user withdrawal token, user fund token,
// custody token account, custody fees account, custody metadata, oracle
// price.
func (p *Processor) approveWithdrawal(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 14 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	fundTokenMint := accounts[5]
	user := accounts[6]
	userInfoAccount := accounts[7]
	userWithdrawalToken := accounts[8]
	userFundToken := accounts[9]
	custodyAccount := accounts[10]
	custodyFeesAccount := accounts[11]
	custodyMetadata := accounts[12]
	oracleAccount := accounts[13]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund authority")
	}
	if err := checkFundTokenMint(fundRecord, fundTokenMint); err != nil {
		return err
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is in liquidation state")
	}
	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if custody.CustodyType != fund.CustodyTypeDepositWithdraw {
		return errors.Wrap(solana.ErrInvalidArgument, "withdrawals require a deposit-withdraw custody")
	}
	if err := checkWdCustodyAccounts(fundRecord, custody, userWithdrawalToken, custodyAccount, custodyFeesAccount, custodyMetadata, oracleAccount); err != nil {
		return err
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	pending := userInfo.WithdrawalRequest.Amount
	if pending == 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "no pending withdrawals found")
	}
	amountWithFee := pending
	if amount > 0 && amount < pending {
		amountWithFee = amount
	}

	mintState, err := fundTokenMint.TokenMint()
	if err != nil {
		return err
	}
	if amountWithFee > mintState.Supply {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient fund token supply")
	}
	withdrawalValueUSD := info.CurrentAssetsUSD * float64(amountWithFee) / float64(mintState.Supply)
	if info.WithdrawalSchedule.LimitUSD > 0 && withdrawalValueUSD > info.WithdrawalSchedule.LimitUSD {
		return errors.Wrap(fund.ErrorWithdrawalLimitExceeded, "withdrawal amount is over the limit")
	}
	if err := checkAssetsUpdateTime(clock.UnixTimestamp, info.AssetsUpdateTime, info.AssetsConfig.MaxUpdateAgeSec); err != nil {
		return err
	}

	if err := p.settleWithdrawal(fundRecord, info, custody, settleWithdrawalAccounts{
		fundTokenMint:       fundTokenMint,
		userWithdrawalToken: userWithdrawalToken,
		userFundToken:       userFundToken,
		custodyAccount:      custodyAccount,
		custodyFeesAccount:  custodyFeesAccount,
		oracleAccount:       oracleAccount,
	}, fundRecord.FundAuthority, amountWithFee, withdrawalValueUSD, clock); err != nil {
		return err
	}

	info.AdminActionTime = clock.UnixTimestamp
	userInfo.LastWithdrawal = fund.FundUserAction{
		Time:   userInfo.WithdrawalRequest.Time,
		Amount: amountWithFee,
	}
	userInfo.WithdrawalRequest = fund.FundUserAction{}
	userInfo.DenyReason = ""

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

// denyWithdrawal clears the pending withdrawal request and records the
// reason. No tokens are burned; the delegate approval left on the user's
// fund token account is revoked when the user runs CancelWithdrawal.
//
// Accounts: admin, fund metadata, fund info, user, user info, custody
// metadata.
func (p *Processor) denyWithdrawal(fundRecord *fund.Fund, accounts []*Account, reason string, clock Clock) error {
	if len(accounts) < 6 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundMetadata := accounts[1]
	fundInfoAccount := accounts[2]
	user := accounts[3]
	userInfoAccount := accounts[4]
	custodyMetadata := accounts[5]

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if !bytes.Equal(custody.FundRef, fundMetadata.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody accounts")
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	if userInfo.WithdrawalRequest.Amount == 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "no pending withdrawals found")
	}

	userInfo.LastWithdrawal = fund.FundUserAction{
		Time:   clock.UnixTimestamp,
		Amount: userInfo.WithdrawalRequest.Amount,
	}
	userInfo.WithdrawalRequest = fund.FundUserAction{}
	userInfo.DenyReason = reason

	info.AdminActionTime = clock.UnixTimestamp

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

// cancelWithdrawal revokes the delegate approval on the user's fund token
// account and clears the pending request. Canceling with nothing pending is
// a no-op.
//
// Accounts: user, fund metadata, fund info, token program, user info, user
// fund token, custody metadata.
func (p *Processor) cancelWithdrawal(fundRecord *fund.Fund, accounts []*Account) error {
	if len(accounts) < 7 {
		return solana.ErrNotEnoughAccountKeys
	}
	user := accounts[0]
	fundMetadata := accounts[1]
	userInfoAccount := accounts[4]
	userFundToken := accounts[5]
	custodyMetadata := accounts[6]

	if !user.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if !bytes.Equal(custody.FundRef, fundMetadata.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody accounts")
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	if userInfo.WithdrawalRequest.Amount == 0 {
		return nil
	}

	if err := revokeDelegate(userFundToken, user.Key); err != nil {
		return err
	}

	userInfo.WithdrawalRequest = fund.FundUserAction{}
	userInfo.DenyReason = ""
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}
