// Package fund contains the state, wire format, address derivation and
// instruction builders of the Fund program, a multi-token pooled-custody
// manager whose fund token represents a USD-denominated claim on the
// pool's net asset value.
package fund

import (
	"errors"

	"github.com/askibin/solana-program-library/pkg/solana"
)

var (
	ErrInvalidAccountData     = errors.New("unexpected account data")
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

// MaxNameLength bounds fund, token and deny-reason strings stored in
// fixed-layout records.
const MaxNameLength = 64

// FundTokenDecimals is the decimal precision of every fund's token mint.
const FundTokenDecimals = 6

// Program-specific error codes surfaced as custom errors in transaction
// results. The client maps them back to descriptive messages.
const (
	// Deposit resulted in zero mintable fund tokens.
	ErrorZeroMintAmount solana.CustomError = 170

	ErrorDepositsNotAllowed      solana.CustomError = 220
	ErrorDepositLimitExceeded    solana.CustomError = 221
	ErrorStaleAssets             solana.CustomError = 222
	ErrorAssetsLimitExceeded     solana.CustomError = 223
	ErrorWithdrawalsNotAllowed   solana.CustomError = 224
	ErrorWithdrawalLimitExceeded solana.CustomError = 225

	ErrorOracleEmpty       solana.CustomError = 300
	ErrorOracleInvalidState solana.CustomError = 301
	ErrorOracleStale       solana.CustomError = 302
	ErrorOracleOutOfBounds solana.CustomError = 303
)

// ErrorMessage returns a user-facing description for a Fund custom error
// code, or an empty string if the code isn't one of the program's.
func ErrorMessage(code solana.CustomError) string {
	switch code {
	case ErrorZeroMintAmount:
		return "deposit didn't result in fund tokens mint"
	case ErrorDepositsNotAllowed:
		return "deposits to this fund are not allowed at this time"
	case ErrorDepositLimitExceeded:
		return "deposit amount is over the limit"
	case ErrorStaleAssets:
		return "assets balance is stale, contact fund administrator"
	case ErrorAssetsLimitExceeded:
		return "fund assets limit reached"
	case ErrorWithdrawalsNotAllowed:
		return "withdrawals from this fund are not allowed at this time"
	case ErrorWithdrawalLimitExceeded:
		return "withdrawal amount is over the limit"
	case ErrorOracleEmpty:
		return "invalid oracle account"
	case ErrorOracleInvalidState:
		return "oracle price has invalid state"
	case ErrorOracleStale:
		return "oracle price is stale"
	case ErrorOracleOutOfBounds:
		return "oracle price is out of bounds"
	}
	return ""
}

type FundType uint8

const (
	FundTypeGeneral FundType = iota
	FundTypeIndex
)

type CustodyType uint8

const (
	CustodyTypeDepositWithdraw CustodyType = iota
	CustodyTypeTrading
)

func (t CustodyType) String() string {
	switch t {
	case CustodyTypeDepositWithdraw:
		return "deposit-withdraw"
	case CustodyTypeTrading:
		return "trading"
	}
	return "unknown"
}

type AssetType uint8

const (
	AssetTypeVault AssetType = iota
	AssetTypeCustody
)

// AccountType tags each record kind; the first discriminator byte.
type AccountType uint8

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeFund
	AccountTypeFundInfo
	AccountTypeFundCustody
	AccountTypeFundAssets
	AccountTypeFundUserInfo
)
