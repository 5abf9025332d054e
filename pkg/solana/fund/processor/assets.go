package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// lockAssets stages tokens for trading by moving them from the
// deposit/withdraw custody into the trading custody of the same token. A
// zero amount moves the entire deposit/withdraw balance.
//
// Accounts: admin, fund metadata, fund info, fund authority, token program,
// wd custody token account, wd custody metadata, trading custody token
// account, trading custody metadata.
func (p *Processor) lockAssets(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 9 {
		return solana.ErrNotEnoughAccountKeys
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is in liquidation state")
	}
	if err := p.moveAssets(fundRecord, info, accounts, accounts[5], accounts[7], amount, clock); err != nil {
		return err
	}
	return nil
}

// unlockAssets returns tokens from the trading custody to the
// deposit/withdraw custody, making them eligible for withdrawal again. A
// zero amount moves the entire trading balance. Allowed during liquidation.
func (p *Processor) unlockAssets(fundRecord *fund.Fund, accounts []*Account, amount uint64, clock Clock) error {
	if len(accounts) < 9 {
		return solana.ErrNotEnoughAccountKeys
	}
	info, err := loadFundInfo(accounts[2])
	if err != nil {
		return err
	}
	if err := p.moveAssets(fundRecord, info, accounts, accounts[7], accounts[5], amount, clock); err != nil {
		return err
	}
	return nil
}

// moveAssets validates both custody pairs and transfers between them with
// the fund authority. The account list is shared between LockAssets and
// UnlockAssets; only the transfer direction differs.
func (p *Processor) moveAssets(fundRecord *fund.Fund, info *fund.FundInfo, accounts []*Account, source, destination *Account, amount uint64, clock Clock) error {
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	wdCustodyAccount := accounts[5]
	wdCustodyMetadata := accounts[6]
	tradingCustodyAccount := accounts[7]
	tradingCustodyMetadata := accounts[8]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund authority")
	}

	wdCustody, err := loadCustody(wdCustodyMetadata)
	if err != nil {
		return err
	}
	if err := checkCustodyAccount(fundRecord, wdCustody, wdCustodyAccount, wdCustodyMetadata, fund.CustodyTypeDepositWithdraw); err != nil {
		return err
	}
	tradingCustody, err := loadCustody(tradingCustodyMetadata)
	if err != nil {
		return err
	}
	if err := checkCustodyAccount(fundRecord, tradingCustody, tradingCustodyAccount, tradingCustodyMetadata, fund.CustodyTypeTrading); err != nil {
		return err
	}
	if !bytes.Equal(wdCustody.TokenMint, tradingCustody.TokenMint) {
		return errors.Wrap(solana.ErrInvalidArgument, "custody mint mismatch")
	}

	balance, err := source.TokenBalance()
	if err != nil {
		return err
	}
	if amount == 0 {
		amount = balance
	}
	if amount > balance {
		return errors.Wrap(solana.ErrInsufficientFunds, "insufficient funds in the custody")
	}

	if err := transferTokens(source, destination, fundRecord.FundAuthority, amount); err != nil {
		return err
	}

	info.AdminActionTime = clock.UnixTimestamp
	fundInfoAccount.Data = info.Marshal()

	return nil
}

// addVault registers a new vault in the tracked set by replacing the vaults'
// target hash with the client-computed hash over the expected post-state
// set. The current hash resets to zero pending the next refresh cycle.
//
// Accounts: admin, fund metadata, fund info, vaults assets info, vault.
func (p *Processor) addVault(fundRecord *fund.Fund, accounts []*Account, targetHash uint64, clock Clock) error {
	return p.setVaultsTargetHash(fundRecord, accounts, targetHash, clock)
}

// removeVault drops a vault from the tracked set, updating the hash pair
// the same way as addVault.
func (p *Processor) removeVault(fundRecord *fund.Fund, accounts []*Account, targetHash uint64, clock Clock) error {
	return p.setVaultsTargetHash(fundRecord, accounts, targetHash, clock)
}

func (p *Processor) setVaultsTargetHash(fundRecord *fund.Fund, accounts []*Account, targetHash uint64, clock Clock) error {
	if len(accounts) < 5 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundInfoAccount := accounts[2]
	vaultsAssetsInfo := accounts[3]

	if !bytes.Equal(fundRecord.VaultsAssetsInfo, vaultsAssetsInfo.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid vaults assets info")
	}
	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	var assets fund.FundAssets
	if err := assets.Unmarshal(vaultsAssetsInfo.Data); err != nil {
		return errors.Wrap(err, "failed to load vaults assets info")
	}

	assets.TargetHash = targetHash
	assets.CurrentHash = 0
	vaultsAssetsInfo.Data = assets.Marshal()

	info.AdminActionTime = clock.UnixTimestamp
	fundInfoAccount.Data = info.Marshal()

	return nil
}

// updateAssetsWithVault folds one vault's balance into the running vault
// assets cycle. Permissionless.
//
// Accounts: wallet, fund metadata, fund info, vaults assets info, vault,
// oracle price.
func (p *Processor) updateAssetsWithVault(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	if len(accounts) < 6 {
		return solana.ErrNotEnoughAccountKeys
	}
	wallet := accounts[0]
	fundInfoAccount := accounts[2]
	vaultsAssetsInfo := accounts[3]
	vault := accounts[4]
	oracleAccount := accounts[5]

	if !wallet.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	if !bytes.Equal(fundRecord.VaultsAssetsInfo, vaultsAssetsInfo.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid vaults assets info")
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	var assets fund.FundAssets
	if err := assets.Unmarshal(vaultsAssetsInfo.Data); err != nil {
		return errors.Wrap(err, "failed to load vaults assets info")
	}

	balance, err := vault.TokenBalance()
	if err != nil {
		return errors.Wrap(err, "invalid vault account")
	}
	// Vault records carry no decimals; balances are valued in raw units
	// against the oracle exponent.
	cfg := info.AssetsConfig
	value, err := assetValueUSD(balance, 0, cfg.MaxPriceError, cfg.MaxPriceAgeSec, oracleAccount, clock)
	if err != nil {
		return err
	}

	p.foldAssets(info, &assets, vault.Key, value, clock)

	vaultsAssetsInfo.Data = assets.Marshal()
	fundInfoAccount.Data = info.Marshal()

	return nil
}

// updateAssetsWithCustody folds one custody's balance into the running
// custody assets cycle. Permissionless.
//
// Accounts: wallet, fund metadata, fund info, custodies assets info,
// custody token account, custody metadata, oracle price.
func (p *Processor) updateAssetsWithCustody(fundRecord *fund.Fund, accounts []*Account, clock Clock) error {
	if len(accounts) < 7 {
		return solana.ErrNotEnoughAccountKeys
	}
	wallet := accounts[0]
	fundInfoAccount := accounts[2]
	custodiesAssetsInfo := accounts[3]
	custodyAccount := accounts[4]
	custodyMetadata := accounts[5]
	oracleAccount := accounts[6]

	if !wallet.IsSigner {
		return solana.ErrMissingRequiredSignature
	}
	if !bytes.Equal(fundRecord.CustodiesAssetsInfo, custodiesAssetsInfo.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custodies assets info")
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	var assets fund.FundAssets
	if err := assets.Unmarshal(custodiesAssetsInfo.Data); err != nil {
		return errors.Wrap(err, "failed to load custodies assets info")
	}

	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if err := checkCustodyAccount(fundRecord, custody, custodyAccount, custodyMetadata, custody.CustodyType); err != nil {
		return err
	}
	if !bytes.Equal(custody.OracleAccount, oracleAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid oracle account")
	}

	balance, err := custodyAccount.TokenBalance()
	if err != nil {
		return err
	}
	cfg := info.AssetsConfig
	value, err := assetValueUSD(balance, custody.TokenDecimals, cfg.MaxPriceError, cfg.MaxPriceAgeSec, oracleAccount, clock)
	if err != nil {
		return err
	}

	p.foldAssets(info, &assets, custodyAccount.Key, value, clock)

	custodiesAssetsInfo.Data = assets.Marshal()
	fundInfoAccount.Data = info.Marshal()

	return nil
}

// foldAssets advances the refresh cycle by one member: the member's address
// extends the rolling hash and its value accumulates into the running
// total. When the rolling hash reaches the target hash the cycle is
// complete, the tracker's total is latched into the fund info and the NAV
// is restamped as the sum of both trackers' latest totals. The hash resets
// for the next cycle. A member set changed out-of-band leaves the rolling
// hash unable to reach the target, so the NAV is never refreshed from a
// mismatched set.
func (p *Processor) foldAssets(info *fund.FundInfo, assets *fund.FundAssets, member []byte, value float64, clock Clock) {
	if assets.CurrentHash == 0 {
		assets.CurrentAssetsUSD = 0
	}
	assets.CurrentHash = fund.ChainHash(assets.CurrentHash, member)
	assets.CurrentAssetsUSD += value

	if assets.CurrentHash == assets.TargetHash {
		assets.CycleEndTime = clock.UnixTimestamp
		assets.CurrentHash = 0

		if assets.AssetType == fund.AssetTypeVault {
			info.VaultsAssetsUSD = assets.CurrentAssetsUSD
		} else {
			info.CustodiesAssetsUSD = assets.CurrentAssetsUSD
		}
		info.CurrentAssetsUSD = info.VaultsAssetsUSD + info.CustodiesAssetsUSD
		info.AssetsUpdateTime = clock.UnixTimestamp
	}
}
