package processor

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// depositAmounts splits a requested amount into the net deposit and the
// schedule fee. A zero request takes the user's entire balance net of fee.
func depositAmounts(amount, balance uint64, fee float64) (depositAmount, feeAmount, amountWithFee uint64, err error) {
	if amount == 0 {
		depositAmount = uint64(float64(balance) / (1 + fee))
		return depositAmount, balance - depositAmount, balance, nil
	}
	feeAmount, err = checkedUint64(fee * float64(amount))
	if err != nil {
		return 0, 0, 0, err
	}
	if feeAmount > amount {
		return 0, 0, 0, solana.ErrInsufficientFunds
	}
	return amount - feeAmount, feeAmount, amount, nil
}

// requestDeposit adds tokens to the fund. When the deposit schedule does
// not require approval the deposit settles immediately: tokens move into
// the custody and fund tokens are minted at the current NAV rate. Otherwise
// the fund authority is approved as a delegate for the amount and the
// request waits for ApproveDeposit.
//
// Accounts: user, fund metadata, fund info, fund authority, token program,
// fund token mint, user info, user deposit token, user fund token, custody
// token account, custody fees account, custody metadata, oracle price.
func (p *Processor) requestDeposit(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 13 {
		return solana.ErrNotEnoughAccountKeys
	}
	user := accounts[0]
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	fundTokenMint := accounts[5]
	userInfoAccount := accounts[6]
	userDepositToken := accounts[7]
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
	fundTokenState, err := userFundToken.TokenAccount()
	if err != nil || !bytes.Equal(fundTokenState.Owner, user.Key) {
		return errors.Wrap(solana.ErrIllegalOwner, "invalid fund token account owner")
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
		return errors.Wrap(solana.ErrInvalidArgument, "deposits require a deposit-withdraw custody")
	}
	if err := checkWdCustodyAccounts(fundRecord, custody, userDepositToken, custodyAccount, custodyFeesAccount, custodyMetadata, oracleAccount); err != nil {
		return err
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	if !info.IsDepositAllowed(clock.UnixTimestamp) {
		return errors.Wrap(fund.ErrorDepositsNotAllowed, "deposits to this fund are not allowed at this time")
	}
	if userInfo.DepositRequest.Amount > 0 || userInfo.WithdrawalRequest.Amount > 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "pending request must be approved, denied or canceled first")
	}

	balance, err := userDepositToken.TokenBalance()
	if err != nil {
		return err
	}
	depositAmount, feeAmount, amountWithFee, err := depositAmounts(amount, balance, info.DepositSchedule.Fee)
	if err != nil {
		return err
	}
	if depositAmount == 0 || amountWithFee > balance {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient user funds")
	}

	cfg := info.AssetsConfig
	depositValueUSD, err := assetValueUSD(depositAmount, custody.TokenDecimals, cfg.MaxPriceError, cfg.MaxPriceAgeSec, oracleAccount, clock)
	if err != nil {
		return err
	}
	if info.DepositSchedule.LimitUSD > 0 && depositValueUSD > info.DepositSchedule.LimitUSD {
		return errors.Wrap(fund.ErrorDepositLimitExceeded, "deposit amount is over the limit")
	}

	userInfo.DenyReason = ""

	if info.DepositSchedule.ApprovalRequired {
		if err := approveDelegate(userDepositToken, fundRecord.FundAuthority, user.Key, amountWithFee); err != nil {
			return err
		}
		userInfo.DepositRequest = fund.FundUserAction{
			Time:   clock.UnixTimestamp,
			Amount: amountWithFee,
		}
	} else {
		if err := p.settleDeposit(fundRecord, info, settleDepositAccounts{
			fundTokenMint:      fundTokenMint,
			userDepositToken:   userDepositToken,
			userFundToken:      userFundToken,
			custodyAccount:     custodyAccount,
			custodyFeesAccount: custodyFeesAccount,
		}, user.Key, depositAmount, feeAmount, depositValueUSD, clock.UnixTimestamp); err != nil {
			return err
		}
		userInfo.LastDeposit = fund.FundUserAction{
			Time:   clock.UnixTimestamp,
			Amount: depositAmount,
		}
		userInfo.DepositRequest = fund.FundUserAction{}
	}

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

type settleDepositAccounts struct {
	fundTokenMint      *Account
	userDepositToken   *Account
	userFundToken      *Account
	custodyAccount     *Account
	custodyFeesAccount *Account
}

// settleDeposit moves the deposit and fee into the custody accounts and
// mints fund tokens at the current NAV rate. The transfer authority is the
// user on the instant path and the fund authority delegate on approval.
func (p *Processor) settleDeposit(
	fundRecord *fund.Fund,
	info *fund.FundInfo,
	accounts settleDepositAccounts,
	transferAuthority ed25519.PublicKey,
	depositAmount, feeAmount uint64,
	depositValueUSD float64,
	now int64,
) error {
	if err := checkAssetsLimitUSD(info, depositValueUSD); err != nil {
		return err
	}
	if err := checkAssetsUpdateTime(now, info.AssetsUpdateTime, info.AssetsConfig.MaxUpdateAgeSec); err != nil {
		return err
	}

	mintState, err := accounts.fundTokenMint.TokenMint()
	if err != nil {
		return err
	}
	mintAmount, err := fundTokenToMintAmount(info.CurrentAssetsUSD, depositAmount, depositValueUSD, mintState.Supply)
	if err != nil {
		return err
	}
	if mintAmount == 0 {
		return errors.Wrap(fund.ErrorZeroMintAmount, "deposit didn't result in fund tokens mint")
	}

	if err := transferTokens(accounts.userDepositToken, accounts.custodyAccount, transferAuthority, depositAmount); err != nil {
		return err
	}
	if feeAmount > 0 {
		if err := transferTokens(accounts.userDepositToken, accounts.custodyFeesAccount, transferAuthority, feeAmount); err != nil {
			return err
		}
	}
	if err := mintTo(accounts.fundTokenMint, accounts.userFundToken, fundRecord.FundAuthority, mintAmount); err != nil {
		return err
	}

	info.AmountInvestedUSD += depositValueUSD
	info.CurrentAssetsUSD += depositValueUSD

	return nil
}

// approveDeposit settles a pending deposit request with the fund authority
// spending the user's delegated allowance. A zero amount approves the full
// pending amount; a smaller amount settles partially but the request is
// cleared either way.
//
// Accounts: admin, fund metadata, fund info, fund authority, token program,
// fund token mint, user, user info, user deposit token, user fund token,
// custody token account, custody fees account, custody metadata, oracle
// price.
func (p *Processor) approveDeposit(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 14 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	fundTokenMint := accounts[5]
	user := accounts[6]
	userInfoAccount := accounts[7]
	userDepositToken := accounts[8]
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
		return errors.Wrap(solana.ErrInvalidArgument, "deposits require a deposit-withdraw custody")
	}
	if err := checkWdCustodyAccounts(fundRecord, custody, userDepositToken, custodyAccount, custodyFeesAccount, custodyMetadata, oracleAccount); err != nil {
		return err
	}
	userInfo, err := loadUserInfo(fundRecord, user.Key, userInfoAccount)
	if err != nil {
		return err
	}

	pending := userInfo.DepositRequest.Amount
	if pending == 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "no pending deposits found")
	}
	amountWithFee := pending
	if amount > 0 && amount < pending {
		amountWithFee = amount
	}

	depositAmount, feeAmount, _, err := depositAmounts(amountWithFee, 0, info.DepositSchedule.Fee)
	if err != nil {
		return err
	}
	if depositAmount == 0 {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient user funds")
	}

	cfg := info.AssetsConfig
	depositValueUSD, err := assetValueUSD(depositAmount, custody.TokenDecimals, cfg.MaxPriceError, cfg.MaxPriceAgeSec, oracleAccount, clock)
	if err != nil {
		return err
	}
	if info.DepositSchedule.LimitUSD > 0 && depositValueUSD > info.DepositSchedule.LimitUSD {
		return errors.Wrap(fund.ErrorDepositLimitExceeded, "deposit amount is over the limit")
	}

	if err := p.settleDeposit(fundRecord, info, settleDepositAccounts{
		fundTokenMint:      fundTokenMint,
		userDepositToken:   userDepositToken,
		userFundToken:      userFundToken,
		custodyAccount:     custodyAccount,
		custodyFeesAccount: custodyFeesAccount,
	}, fundRecord.FundAuthority, depositAmount, feeAmount, depositValueUSD, clock.UnixTimestamp); err != nil {
		return err
	}

	info.AdminActionTime = clock.UnixTimestamp
	userInfo.LastDeposit = fund.FundUserAction{
		Time:   userInfo.DepositRequest.Time,
		Amount: depositAmount,
	}
	userInfo.DepositRequest = fund.FundUserAction{}
	userInfo.DenyReason = ""

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

// denyDeposit clears the pending deposit request and records the reason.
// No funds move; the delegate approval left on the user's token account is
// revoked when the user runs CancelDeposit.
//
// Accounts: admin, fund metadata, fund info, user, user info, custody
// metadata.
func (p *Processor) denyDeposit(fundRecord *fund.Fund, accounts []*Account, reason string, clock Clock) error {
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

	if userInfo.DepositRequest.Amount == 0 {
		return errors.Wrap(solana.ErrInvalidArgument, "no pending deposits found")
	}

	userInfo.LastDeposit = fund.FundUserAction{
		Time:   clock.UnixTimestamp,
		Amount: userInfo.DepositRequest.Amount,
	}
	userInfo.DepositRequest = fund.FundUserAction{}
	userInfo.DenyReason = reason

	info.AdminActionTime = clock.UnixTimestamp

	fundInfoAccount.Data = info.Marshal()
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}

// cancelDeposit revokes the delegate approval and clears the pending
// request. Canceling with nothing pending is a no-op.
//
// Accounts: user, fund metadata, fund info, token program, user info, user
// deposit token, custody metadata.
func (p *Processor) cancelDeposit(fundRecord *fund.Fund, accounts []*Account) error {
	if len(accounts) < 7 {
		return solana.ErrNotEnoughAccountKeys
	}
	user := accounts[0]
	fundMetadata := accounts[1]
	userInfoAccount := accounts[4]
	userDepositToken := accounts[5]
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

	if userInfo.DepositRequest.Amount == 0 {
		return nil
	}

	if err := revokeDelegate(userDepositToken, user.Key); err != nil {
		return err
	}

	userInfo.DepositRequest = fund.FundUserAction{}
	userInfo.DenyReason = ""
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}
