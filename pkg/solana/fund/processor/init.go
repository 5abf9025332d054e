package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// initFund creates every companion account of a freshly registered fund:
// the authority PDA, the info record, the fund token mint, both assets
// aggregates and the liquidation state. All of them fit a single
// transaction, so the step argument is accepted but the full
// initialization always runs.
//
// Accounts: admin, fund metadata, fund info, fund authority, fund program,
// system program, token program, rent sysvar, fund token mint, vaults
// assets info, custodies assets info, liquidation state.
func (p *Processor) initFund(fundRecord *fund.Fund, accounts []*Account, step uint64, clock Clock) error {
	if len(accounts) < 12 {
		return solana.ErrNotEnoughAccountKeys
	}
	fundMetadata := accounts[1]
	fundInfoAccount := accounts[2]
	fundAuthority := accounts[3]
	fundProgram := accounts[4]
	fundTokenMint := accounts[8]
	vaultsAssetsInfo := accounts[9]
	custodiesAssetsInfo := accounts[10]
	liquidationState := accounts[11]

	if !bytes.Equal(fundRecord.FundAuthority, fundAuthority.Key) ||
		!bytes.Equal(fundRecord.FundProgramID, fundProgram.Key) ||
		!bytes.Equal(fundRecord.FundTokenMint, fundTokenMint.Key) ||
		!bytes.Equal(fundRecord.VaultsAssetsInfo, vaultsAssetsInfo.Key) ||
		!bytes.Equal(fundRecord.CustodiesAssetsInfo, custodiesAssetsInfo.Key) ||
		!bytes.Equal(fundRecord.LiquidationState, liquidationState.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund accounts")
	}

	program := fundRecord.FundProgramID
	fundName := fund.NameSeed(fundRecord.Name)

	if _, err := initProgramAccount(fundAuthority, program, 0, fund.FundAuthorityPrefix, fundName); err != nil {
		return errors.Wrap(err, "failed to create fund authority")
	}

	infoBump, err := initProgramAccount(fundInfoAccount, program, fund.FundInfoAccountSize, fund.FundInfoPrefix, fundName)
	if err != nil {
		return errors.Wrap(err, "failed to create fund info")
	}
	info := fund.FundInfo{
		AdminActionTime: clock.UnixTimestamp,
		Bump:            infoBump,
	}
	fundInfoAccount.Data = info.Marshal()

	if _, err := initMintAccount(fundTokenMint, fundRecord.FundAuthority, fund.FundTokenDecimals, program, fund.FundTokenMintPrefix, fundName); err != nil {
		return errors.Wrap(err, "failed to create fund token mint")
	}

	vaultsBump, err := initProgramAccount(vaultsAssetsInfo, program, fund.FundAssetsAccountSize, fund.VaultsAssetsInfoPrefix, fundName)
	if err != nil {
		return errors.Wrap(err, "failed to create vaults assets info")
	}
	vaultsAssets := fund.FundAssets{
		FundRef:   fundMetadata.Key,
		AssetType: fund.AssetTypeVault,
		Bump:      vaultsBump,
	}
	vaultsAssetsInfo.Data = vaultsAssets.Marshal()

	custodiesBump, err := initProgramAccount(custodiesAssetsInfo, program, fund.FundAssetsAccountSize, fund.CustodiesAssetsInfoPrefix, fundName)
	if err != nil {
		return errors.Wrap(err, "failed to create custodies assets info")
	}
	custodiesAssets := fund.FundAssets{
		FundRef:   fundMetadata.Key,
		AssetType: fund.AssetTypeCustody,
		Bump:      custodiesBump,
	}
	custodiesAssetsInfo.Data = custodiesAssets.Marshal()

	if _, err := initProgramAccount(liquidationState, program, 0, fund.LiquidationStatePrefix, fundName); err != nil {
		return errors.Wrap(err, "failed to create liquidation state")
	}

	return nil
}
