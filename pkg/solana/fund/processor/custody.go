package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// addCustody creates the custody metadata record and its two PDA token
// accounts, all seeded by custody type, token name and fund name. The token
// name is derived from the mint, so the same (token, type) pair always
// re-derives identical addresses. The custodies' target hash is replaced
// with the client-computed hash over the expected post-state set and the
// current hash resets to zero pending the next refresh cycle.
//
// Accounts: admin, fund metadata, fund info, fund authority, system
// program, token program, rent sysvar, custodies assets info, custody token
// account, custody fees account, custody metadata, token mint, oracle
// price.
func (p *Processor) addCustody(fundRecord *fund.Fund, accounts []*Account, targetHash uint64, custodyID uint32, custodyType fund.CustodyType, clock Clock) error {
	if len(accounts) < 13 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundMetadata := accounts[1]
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	custodiesAssetsInfo := accounts[7]
	custodyAccount := accounts[8]
	custodyFeesAccount := accounts[9]
	custodyMetadata := accounts[10]
	tokenMint := accounts[11]
	oracleAccount := accounts[12]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) ||
		!bytes.Equal(fundRecord.CustodiesAssetsInfo, custodiesAssetsInfo.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund accounts")
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is in liquidation state")
	}
	var assets fund.FundAssets
	if err := assets.Unmarshal(custodiesAssetsInfo.Data); err != nil {
		return errors.Wrap(err, "failed to load custodies assets info")
	}

	mintState, err := tokenMint.TokenMint()
	if err != nil {
		return errors.Wrap(err, "invalid custody token mint")
	}

	program := fundRecord.FundProgramID
	fundName := fund.NameSeed(fundRecord.Name)
	tokenName := fund.CustodyTokenName(tokenMint.Key)
	metadataPrefix, accountPrefix, feesPrefix := fund.CustodySeedPrefixes(custodyType)

	if _, err := initTokenAccount(custodyAccount, tokenMint, fundRecord.FundAuthority, program, accountPrefix, fund.NameSeed(tokenName), fundName); err != nil {
		return errors.Wrap(err, "failed to create custody token account")
	}
	if _, err := initTokenAccount(custodyFeesAccount, tokenMint, fundRecord.FundAuthority, program, feesPrefix, fund.NameSeed(tokenName), fundName); err != nil {
		return errors.Wrap(err, "failed to create custody fees account")
	}

	bump, err := initProgramAccount(custodyMetadata, program, fund.FundCustodyAccountSize, metadataPrefix, fund.NameSeed(tokenName), fundName)
	if err != nil {
		return errors.Wrap(err, "failed to create custody metadata")
	}
	custody := fund.FundCustody{
		FundRef:       fundMetadata.Key,
		CustodyID:     custodyID,
		CustodyType:   custodyType,
		TokenName:     tokenName,
		TokenMint:     tokenMint.Key,
		TokenDecimals: mintState.Decimals,
		Address:       custodyAccount.Key,
		FeesAddress:   custodyFeesAccount.Key,
		OracleAccount: oracleAccount.Key,
		Bump:          bump,
	}
	custodyMetadata.Data = custody.Marshal()

	assets.TargetHash = targetHash
	assets.CurrentHash = 0
	custodiesAssetsInfo.Data = assets.Marshal()

	info.AdminActionTime = clock.UnixTimestamp
	fundInfoAccount.Data = info.Marshal()

	return nil
}

// removeCustody closes both custody token accounts and the metadata record,
// returning their lamports to the receiver. Both token accounts must be
// empty. The hash pair is updated the same way as in addCustody.
//
// Accounts: admin, fund metadata, fund info, fund authority, system
// program, token program, custodies assets info, custody token account,
// custody fees account, custody metadata, receiver token account.
func (p *Processor) removeCustody(fundRecord *fund.Fund, accounts []*Account, targetHash uint64, custodyType fund.CustodyType, clock Clock) error {
	if len(accounts) < 11 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	custodiesAssetsInfo := accounts[6]
	custodyAccount := accounts[7]
	custodyFeesAccount := accounts[8]
	custodyMetadata := accounts[9]
	receiver := accounts[10]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) ||
		!bytes.Equal(fundRecord.CustodiesAssetsInfo, custodiesAssetsInfo.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund accounts")
	}

	info, err := loadFundInfo(fundInfoAccount)
	if err != nil {
		return err
	}
	if info.IsLiquidating() {
		return errors.Wrap(solana.ErrInvalidArgument, "fund is in liquidation state")
	}
	var assets fund.FundAssets
	if err := assets.Unmarshal(custodiesAssetsInfo.Data); err != nil {
		return errors.Wrap(err, "failed to load custodies assets info")
	}

	custody, err := loadCustody(custodyMetadata)
	if err != nil {
		return err
	}
	if custody.CustodyType != custodyType {
		return errors.Wrap(solana.ErrInvalidArgument, "custody type mismatch")
	}
	if err := checkCustodyAccount(fundRecord, custody, custodyAccount, custodyMetadata, custodyType); err != nil {
		return err
	}
	if !bytes.Equal(custody.FeesAddress, custodyFeesAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody fees account")
	}

	if err := closeTokenAccount(custodyAccount, receiver, fundRecord.FundAuthority); err != nil {
		return err
	}
	if err := closeTokenAccount(custodyFeesAccount, receiver, fundRecord.FundAuthority); err != nil {
		return err
	}
	closeAccount(custodyMetadata, receiver)

	assets.TargetHash = targetHash
	assets.CurrentHash = 0
	custodiesAssetsInfo.Data = assets.Marshal()

	info.AdminActionTime = clock.UnixTimestamp
	fundInfoAccount.Data = info.Marshal()

	return nil
}
