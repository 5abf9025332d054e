package processor

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/fund"
	"github.com/askibin/solana-program-library/pkg/solana/pyth"
)

// msPerSlot is the nominal slot duration used to convert oracle slot lag
// into seconds.
const msPerSlot = 400

// loadFundInfo unmarshals the fund info record from its account.
func loadFundInfo(account *Account) (*fund.FundInfo, error) {
	var info fund.FundInfo
	if err := info.Unmarshal(account.Data); err != nil {
		return nil, errors.Wrap(err, "failed to load fund info")
	}
	return &info, nil
}

// loadCustody unmarshals a custody metadata record from its account.
func loadCustody(account *Account) (*fund.FundCustody, error) {
	var custody fund.FundCustody
	if err := custody.Unmarshal(account.Data); err != nil {
		return nil, errors.Wrap(err, "failed to load custody metadata")
	}
	return &custody, nil
}

// loadUserInfo unmarshals and address-checks a user info record.
func loadUserInfo(fundRecord *fund.Fund, userKey ed25519.PublicKey, account *Account) (*fund.FundUserInfo, error) {
	var userInfo fund.FundUserInfo
	if err := userInfo.Unmarshal(account.Data); err != nil {
		return nil, errors.Wrap(err, "failed to load user info")
	}
	if err := checkUserInfoAccount(fundRecord, &userInfo, userKey, account); err != nil {
		return nil, err
	}
	return &userInfo, nil
}

// checkWdCustodyAccounts validates the full deposit/withdraw custody account
// group against the custody metadata record and its PDA derivation.
func checkWdCustodyAccounts(
	fundRecord *fund.Fund,
	custody *fund.FundCustody,
	userTokenAccount *Account,
	custodyAccount *Account,
	custodyFeesAccount *Account,
	custodyMetadata *Account,
	oracleAccount *Account,
) error {
	userState, err := userTokenAccount.TokenAccount()
	if err != nil {
		return errors.Wrap(err, "invalid user token account")
	}
	custodyState, err := custodyAccount.TokenAccount()
	if err != nil {
		return errors.Wrap(err, "invalid custody token account")
	}
	feesState, err := custodyFeesAccount.TokenAccount()
	if err != nil {
		return errors.Wrap(err, "invalid custody fees token account")
	}
	if !bytes.Equal(custody.TokenMint, custodyState.Mint) ||
		!bytes.Equal(userState.Mint, custodyState.Mint) ||
		!bytes.Equal(userState.Mint, feesState.Mint) {
		return errors.Wrap(solana.ErrInvalidArgument, "custody mint mismatch")
	}

	derived, err := solana.CreateProgramAddress(
		fundRecord.FundProgramID,
		fund.WdCustodyMetadataPrefix,
		fund.NameSeed(custody.TokenName),
		fund.NameSeed(fundRecord.Name),
		[]byte{custody.Bump},
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(derived, custodyMetadata.Key) ||
		!bytes.Equal(custody.Address, custodyAccount.Key) ||
		!bytes.Equal(custody.FeesAddress, custodyFeesAccount.Key) ||
		!bytes.Equal(custody.OracleAccount, oracleAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody accounts")
	}
	return nil
}

// checkCustodyAccount validates a custody token account against its metadata
// record for the given custody type.
func checkCustodyAccount(
	fundRecord *fund.Fund,
	custody *fund.FundCustody,
	custodyAccount *Account,
	custodyMetadata *Account,
	custodyType fund.CustodyType,
) error {
	custodyState, err := custodyAccount.TokenAccount()
	if err != nil {
		return errors.Wrap(err, "invalid custody token account")
	}
	if !bytes.Equal(custody.TokenMint, custodyState.Mint) {
		return errors.Wrap(solana.ErrInvalidArgument, "custody mint mismatch")
	}

	prefix := fund.WdCustodyMetadataPrefix
	if custodyType == fund.CustodyTypeTrading {
		prefix = fund.TradingCustodyMetadataPrefix
	}
	derived, err := solana.CreateProgramAddress(
		fundRecord.FundProgramID,
		prefix,
		fund.NameSeed(custody.TokenName),
		fund.NameSeed(fundRecord.Name),
		[]byte{custody.Bump},
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(derived, custodyMetadata.Key) ||
		!bytes.Equal(custody.Address, custodyAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid custody accounts")
	}
	return nil
}

// checkUserInfoAccount validates the user info record address against its
// PDA derivation for the user and custody token.
func checkUserInfoAccount(
	fundRecord *fund.Fund,
	userInfo *fund.FundUserInfo,
	userKey ed25519.PublicKey,
	userInfoAccount *Account,
) error {
	derived, err := solana.CreateProgramAddress(
		fundRecord.FundProgramID,
		fund.UserInfoPrefix,
		fund.NameSeed(userInfo.TokenName),
		userKey,
		fund.NameSeed(fundRecord.Name),
		[]byte{userInfo.Bump},
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(derived, userInfoAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid user info address")
	}
	return nil
}

func checkFundTokenMint(fundRecord *fund.Fund, mintAccount *Account) error {
	derived, err := solana.CreateProgramAddress(
		fundRecord.FundProgramID,
		fund.FundTokenMintPrefix,
		fund.NameSeed(fundRecord.Name),
		[]byte{fundRecord.FundTokenBump},
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(derived, mintAccount.Key) {
		return errors.Wrap(solana.ErrInvalidArgument, "invalid fund token mint")
	}
	return nil
}

// checkAssetsUpdateTime fails when the tracked assets value has not been
// refreshed recently enough to price fund tokens safely.
func checkAssetsUpdateTime(now, assetsUpdateTime int64, maxUpdateAgeSec uint64) error {
	if now-assetsUpdateTime > int64(maxUpdateAgeSec) {
		return errors.Wrap(fund.ErrorStaleAssets, "assets balance is stale")
	}
	return nil
}

// checkAssetsLimitUSD fails when accepting the deposit would push total
// assets over the configured limit. A zero limit disables the check.
func checkAssetsLimitUSD(info *fund.FundInfo, depositValueUSD float64) error {
	limit := info.AssetsConfig.AssetsLimitUSD
	if limit > 0 && limit < depositValueUSD+info.CurrentAssetsUSD {
		return errors.Wrap(fund.ErrorAssetsLimitExceeded, "fund assets limit reached")
	}
	return nil
}

// readOraclePrice unmarshals and gates an oracle price account, rejecting
// empty, non-trading, stale, and out-of-bounds readings.
func readOraclePrice(oracleAccount *Account, maxPriceError float64, maxPriceAgeSec uint64, clock Clock) (*pyth.Price, error) {
	if oracleAccount.IsEmpty() {
		return nil, errors.Wrap(fund.ErrorOracleEmpty, "invalid oracle account")
	}
	var price pyth.Price
	if err := price.Unmarshal(oracleAccount.Data); err != nil {
		return nil, errors.Wrap(fund.ErrorOracleEmpty, err.Error())
	}
	if price.Status != pyth.PriceStatusTrading || price.PriceType != pyth.PriceTypePrice {
		return nil, errors.Wrap(fund.ErrorOracleInvalidState, "oracle price has invalid state")
	}
	var lastUpdateAgeSec uint64
	if clock.Slot > price.ValidSlot {
		lastUpdateAgeSec = (clock.Slot - price.ValidSlot) * msPerSlot / 1000
	}
	if lastUpdateAgeSec > maxPriceAgeSec {
		return nil, errors.Wrap(fund.ErrorOracleStale, "oracle price is stale")
	}
	if price.Price <= 0 ||
		float64(price.Confidence)/float64(price.Price) > maxPriceError {
		return nil, errors.Wrap(fund.ErrorOracleOutOfBounds, "oracle price is out of bounds")
	}
	return &price, nil
}

// assetValueUSD prices a raw token amount with the given oracle feed.
func assetValueUSD(amount uint64, decimals uint8, maxPriceError float64, maxPriceAgeSec uint64, oracleAccount *Account, clock Clock) (float64, error) {
	if amount == 0 {
		return 0, nil
	}
	price, err := readOraclePrice(oracleAccount, maxPriceError, maxPriceAgeSec, clock)
	if err != nil {
		return 0, err
	}
	return float64(amount) * float64(price.Price) /
		math.Pow(10, float64(int32(decimals)-price.Exponent)), nil
}

// assetValueTokens converts a USD value back into a raw token amount with
// the given oracle feed.
func assetValueTokens(valueUSD float64, decimals uint8, maxPriceError float64, maxPriceAgeSec uint64, oracleAccount *Account, clock Clock) (uint64, error) {
	if valueUSD <= 0 {
		return 0, nil
	}
	price, err := readOraclePrice(oracleAccount, maxPriceError, maxPriceAgeSec, clock)
	if err != nil {
		return 0, err
	}
	return checkedUint64(valueUSD / float64(price.Price) *
		math.Pow(10, float64(int32(decimals)-price.Exponent)))
}

// fundTokenToMintAmount computes the number of fund tokens to mint for a
// deposit. Bootstrap deposits mint one to one; later deposits mint pro rata
// against the fund's current value.
func fundTokenToMintAmount(currentAssetsUSD float64, depositAmount uint64, depositValueUSD float64, supply uint64) (uint64, error) {
	if supply == 0 {
		return depositAmount, nil
	}
	if currentAssetsUSD <= 0.0001 {
		return 0, errors.Wrap(fund.ErrorStaleAssets, "assets balance is stale")
	}
	return checkedUint64(depositValueUSD / currentAssetsUSD * float64(supply))
}

// checkedUint64 rounds to the nearest integer and fails on negative values
// and overflow.
func checkedUint64(v float64) (uint64, error) {
	rounded := math.Round(v)
	if rounded < 0 || rounded >= float64(math.MaxUint64) || math.IsNaN(rounded) {
		return 0, solana.ErrArithmeticOverflow
	}
	return uint64(rounded), nil
}
