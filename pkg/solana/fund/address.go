package fund

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/askibin/solana-program-library/pkg/solana"
)

// PDA seed prefixes. Every fund-owned account is derived from one of these,
// the relevant names, and the fund program id; handlers re-derive and compare
// on every use.
var (
	FundMetadataPrefix        = []byte("fund_metadata")
	FundAuthorityPrefix       = []byte("fund_authority")
	FundInfoPrefix            = []byte("info_account")
	FundTokenMintPrefix       = []byte("fund_token_mint")
	VaultsAssetsInfoPrefix    = []byte("vaults_assets_info")
	CustodiesAssetsInfoPrefix = []byte("custodies_assets_info")
	LiquidationStatePrefix    = []byte("liquidation_state")

	WdCustodyMetadataPrefix      = []byte("fund_wd_custody_info")
	TradingCustodyMetadataPrefix = []byte("fund_trading_custody_info")
	WdCustodyAccountPrefix       = []byte("fund_wd_custody_account")
	TradingCustodyAccountPrefix  = []byte("fund_trading_custody_account")
	WdCustodyFeesPrefix          = []byte("fund_wd_custody_fees_account")
	TradingCustodyFeesPrefix     = []byte("fund_td_custody_fees_account")

	UserInfoPrefix = []byte("user_info_account")
)

func GetFundMetadataAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, FundMetadataPrefix, NameSeed(fundName))
}

func GetFundAuthorityAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, FundAuthorityPrefix, NameSeed(fundName))
}

func GetFundInfoAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, FundInfoPrefix, NameSeed(fundName))
}

func GetFundTokenMintAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, FundTokenMintPrefix, NameSeed(fundName))
}

func GetVaultsAssetsInfoAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, VaultsAssetsInfoPrefix, NameSeed(fundName))
}

func GetCustodiesAssetsInfoAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, CustodiesAssetsInfoPrefix, NameSeed(fundName))
}

func GetLiquidationStateAddress(program ed25519.PublicKey, fundName string) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, LiquidationStatePrefix, NameSeed(fundName))
}

// CustodyTokenName is the canonical name of a custody token used in stored
// records and client lookups: the base58 encoding of its mint.
func CustodyTokenName(mint ed25519.PublicKey) string {
	return base58.Encode(mint)
}

// NameSeed clips a fund or token name to the PDA seed limit. Base58 mint
// names run to 44 characters, so only the leading bytes participate in
// address derivations; the full name is still stored on the records.
func NameSeed(name string) []byte {
	if len(name) > solana.MaxSeedLength {
		name = name[:solana.MaxSeedLength]
	}
	return []byte(name)
}

// CustodySeedPrefixes returns the metadata, token-account and fees-account
// seed prefixes for the given custody type.
func CustodySeedPrefixes(custodyType CustodyType) (metadata, account, fees []byte) {
	if custodyType == CustodyTypeTrading {
		return TradingCustodyMetadataPrefix, TradingCustodyAccountPrefix, TradingCustodyFeesPrefix
	}
	return WdCustodyMetadataPrefix, WdCustodyAccountPrefix, WdCustodyFeesPrefix
}

func GetCustodyMetadataAddress(program ed25519.PublicKey, fundName, tokenName string, custodyType CustodyType) (ed25519.PublicKey, uint8, error) {
	prefix, _, _ := CustodySeedPrefixes(custodyType)
	return solana.FindProgramAddressAndBump(program, prefix, NameSeed(tokenName), NameSeed(fundName))
}

func GetCustodyTokenAccountAddress(program ed25519.PublicKey, fundName, tokenName string, custodyType CustodyType) (ed25519.PublicKey, uint8, error) {
	_, prefix, _ := CustodySeedPrefixes(custodyType)
	return solana.FindProgramAddressAndBump(program, prefix, NameSeed(tokenName), NameSeed(fundName))
}

func GetCustodyFeesAccountAddress(program ed25519.PublicKey, fundName, tokenName string, custodyType CustodyType) (ed25519.PublicKey, uint8, error) {
	_, _, prefix := CustodySeedPrefixes(custodyType)
	return solana.FindProgramAddressAndBump(program, prefix, NameSeed(tokenName), NameSeed(fundName))
}

func GetUserInfoAddress(program ed25519.PublicKey, fundName, tokenName string, user ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, UserInfoPrefix, NameSeed(tokenName), user, NameSeed(fundName))
}
