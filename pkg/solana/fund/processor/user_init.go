package processor

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
)

// userInit creates the caller's user info record for one custody token.
//
// Accounts: user, fund metadata, fund info, user info, custody metadata,
// system program.
func (p *Processor) userInit(fundRecord *fund.Fund, accounts []*Account) error {
	if len(accounts) < 6 {
		return solana.ErrNotEnoughAccountKeys
	}
	user := accounts[0]
	fundMetadata := accounts[1]
	userInfoAccount := accounts[3]
	custodyMetadata := accounts[4]

	if !user.IsSigner {
		return solana.ErrMissingRequiredSignature
	}

	var custody fund.FundCustody
	if err := custody.Unmarshal(custodyMetadata.Data); err != nil {
		return errors.Wrap(err, "failed to load custody metadata")
	}
	if !bytes.Equal(custody.FundRef, fundMetadata.Key) ||
		!bytes.Equal(custodyMetadata.Owner, fundRecord.FundProgramID) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody accounts")
	}

	bump, err := initProgramAccount(
		userInfoAccount,
		fundRecord.FundProgramID,
		fund.FundUserInfoAccountSize,
		fund.UserInfoPrefix,
		fund.NameSeed(custody.TokenName),
		user.Key,
		fund.NameSeed(fundRecord.Name),
	)
	if err != nil {
		return err
	}

	userInfo := fund.FundUserInfo{
		FundRef:   fundMetadata.Key,
		TokenName: custody.TokenName,
		Bump:      bump,
	}
	userInfoAccount.Data = userInfo.Marshal()

	return nil
}
