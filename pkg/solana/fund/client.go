package fund

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/askibin/solana-program-library/pkg/solana"
	compute_budget "github.com/askibin/solana-program-library/pkg/solana/computebudget"
	"github.com/askibin/solana-program-library/pkg/solana/memo"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

var (
	// ErrAccountNotFound indicates there is no account at the derived address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidFundAccount indicates that a Solana account exists at the
	// derived address, but is not owned by the fund program or holds a
	// record of the wrong shape.
	ErrInvalidFundAccount = errors.New("invalid fund account")
)

const (
	defaultComputeUnitLimit = 400_000
	defaultComputeUnitPrice = 1_000
)

// Client provides read access to the on-chain records of funds managed by a
// single deployment of the fund program, plus transaction assembly for the
// program's instructions.
type Client struct {
	sc      solana.Client
	program ed25519.PublicKey
}

// NewClient creates a new Client.
func NewClient(sc solana.Client, program ed25519.PublicKey) *Client {
	return &Client{
		sc:      sc,
		program: program,
	}
}

func (c *Client) Program() ed25519.PublicKey {
	return c.program
}

func (c *Client) getProgramAccountData(address ed25519.PublicKey, commitment solana.Commitment) ([]byte, error) {
	accountInfo, err := c.sc.GetAccountInfo(address, commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(accountInfo.Owner, c.program) {
		return nil, ErrInvalidFundAccount
	}

	return accountInfo.Data, nil
}

// GetFund returns the registration record of the named fund.
func (c *Client) GetFund(fundName string, commitment solana.Commitment) (*Fund, error) {
	address, _, err := GetFundMetadataAddress(c.program, fundName)
	if err != nil {
		return nil, err
	}

	data, err := c.getProgramAccountData(address, commitment)
	if err != nil {
		return nil, err
	}

	var record Fund
	if err := record.Unmarshal(data); err != nil {
		return nil, ErrInvalidFundAccount
	}
	return &record, nil
}

// GetFundAccounts returns the addresses of every fund registration record
// owned by the program.
func (c *Client) GetFundAccounts() ([]ed25519.PublicKey, error) {
	addresses, _, err := c.sc.GetFilteredProgramAccounts(c.program, 0, FundAccountDiscriminator)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get program accounts")
	}

	keys := make([]ed25519.PublicKey, len(addresses))
	for i, address := range addresses {
		keys[i], err = base58.Decode(address)
		if err != nil {
			return nil, errors.Wrap(err, "invalid account address in response")
		}
	}
	return keys, nil
}

// GetFundInfo returns the mutable state record of the named fund.
func (c *Client) GetFundInfo(fundName string, commitment solana.Commitment) (*FundInfo, error) {
	address, _, err := GetFundInfoAddress(c.program, fundName)
	if err != nil {
		return nil, err
	}

	data, err := c.getProgramAccountData(address, commitment)
	if err != nil {
		return nil, err
	}

	var record FundInfo
	if err := record.Unmarshal(data); err != nil {
		return nil, ErrInvalidFundAccount
	}
	return &record, nil
}

// GetCustody returns the custody record for one token of the named fund.
func (c *Client) GetCustody(fundName, tokenName string, custodyType CustodyType, commitment solana.Commitment) (*FundCustody, error) {
	address, _, err := GetCustodyMetadataAddress(c.program, fundName, tokenName, custodyType)
	if err != nil {
		return nil, err
	}

	data, err := c.getProgramAccountData(address, commitment)
	if err != nil {
		return nil, err
	}

	var record FundCustody
	if err := record.Unmarshal(data); err != nil {
		return nil, ErrInvalidFundAccount
	}
	return &record, nil
}

// GetUserInfo returns the per-user request record for one custody token of
// the named fund.
func (c *Client) GetUserInfo(fundName, tokenName string, user ed25519.PublicKey, commitment solana.Commitment) (*FundUserInfo, error) {
	address, _, err := GetUserInfoAddress(c.program, fundName, tokenName, user)
	if err != nil {
		return nil, err
	}

	data, err := c.getProgramAccountData(address, commitment)
	if err != nil {
		return nil, err
	}

	var record FundUserInfo
	if err := record.Unmarshal(data); err != nil {
		return nil, ErrInvalidFundAccount
	}
	return &record, nil
}

// GetVaultsAssets returns the vault-class assets tracking record of the
// named fund.
func (c *Client) GetVaultsAssets(fundName string, commitment solana.Commitment) (*FundAssets, error) {
	address, _, err := GetVaultsAssetsInfoAddress(c.program, fundName)
	if err != nil {
		return nil, err
	}
	return c.getAssets(address, commitment)
}

// GetCustodiesAssets returns the custody-class assets tracking record of
// the named fund.
func (c *Client) GetCustodiesAssets(fundName string, commitment solana.Commitment) (*FundAssets, error) {
	address, _, err := GetCustodiesAssetsInfoAddress(c.program, fundName)
	if err != nil {
		return nil, err
	}
	return c.getAssets(address, commitment)
}

func (c *Client) getAssets(address ed25519.PublicKey, commitment solana.Commitment) (*FundAssets, error) {
	data, err := c.getProgramAccountData(address, commitment)
	if err != nil {
		return nil, err
	}

	var record FundAssets
	if err := record.Unmarshal(data); err != nil {
		return nil, ErrInvalidFundAccount
	}
	return &record, nil
}

// GetCustodyTokenAccount returns the SPL token state of a custody's holding
// account.
func (c *Client) GetCustodyTokenAccount(fundName, tokenName string, custodyType CustodyType, commitment solana.Commitment) (*token.Account, error) {
	address, _, err := GetCustodyTokenAccountAddress(c.program, fundName, tokenName, custodyType)
	if err != nil {
		return nil, err
	}

	accountInfo, err := c.sc.GetAccountInfo(address, commitment)
	if err == solana.ErrNoAccountInfo {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(accountInfo.Owner, token.ProgramKey) {
		return nil, ErrInvalidFundAccount
	}

	var account token.Account
	if !account.Unmarshal(accountInfo.Data) {
		return nil, ErrInvalidFundAccount
	}
	return &account, nil
}

// IsLiquidating reports whether the named fund is in liquidation mode.
func (c *Client) IsLiquidating(fundName string, commitment solana.Commitment) (bool, error) {
	info, err := c.GetFundInfo(fundName, commitment)
	if err != nil {
		return false, err
	}
	return info.IsLiquidating(), nil
}

// TransactionOptions tunes the ambient instructions wrapped around fund
// instructions in an assembled transaction.
type TransactionOptions struct {
	// ComputeUnitLimit caps the compute budget for the transaction. Zero
	// selects a default sized for the heaviest fund instruction.
	ComputeUnitLimit uint32

	// ComputeUnitPrice is the priority fee, in micro-lamports per compute
	// unit. Zero selects a flat default.
	ComputeUnitPrice uint64

	// Memo, when set, is appended as a trailing memo instruction.
	Memo string
}

// NewFundTransaction assembles a transaction around the provided fund
// instructions. Compute budget instructions are prepended and an optional
// memo is appended; the caller sets the blockhash and signs.
func NewFundTransaction(payer ed25519.PublicKey, opts *TransactionOptions, instructions ...solana.Instruction) solana.Transaction {
	cuLimit := uint32(defaultComputeUnitLimit)
	cuPrice := uint64(defaultComputeUnitPrice)
	var memoValue string
	if opts != nil {
		if opts.ComputeUnitLimit > 0 {
			cuLimit = opts.ComputeUnitLimit
		}
		if opts.ComputeUnitPrice > 0 {
			cuPrice = opts.ComputeUnitPrice
		}
		memoValue = opts.Memo
	}

	ixns := make([]solana.Instruction, 0, len(instructions)+3)
	ixns = append(
		ixns,
		compute_budget.SetComputeUnitPrice(cuPrice),
		compute_budget.SetComputeUnitLimit(cuLimit),
	)
	ixns = append(ixns, instructions...)
	if memoValue != "" {
		ixns = append(ixns, memo.Instruction(memoValue))
	}

	return solana.NewTransaction(payer, ixns...)
}

// DescribeError resolves a program custom error to its message. Errors that
// did not originate from the fund program are returned unchanged.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	if code, ok := errors.Cause(err).(solana.CustomError); ok {
		return ErrorMessage(code)
	}
	return err.Error()
}
