package processor

import (
	"bytes"
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/system"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

// Account is the processor's view of one instruction account: the address,
// the owning program, and the raw account state. Mutations to Data, Owner
// and Lamports are rolled back by Process when a handler fails.
type Account struct {
	Key      ed25519.PublicKey
	Owner    ed25519.PublicKey
	Lamports uint64
	Data     []byte
	IsSigner bool
}

func (a *Account) IsEmpty() bool {
	return len(a.Data) == 0
}

// TokenAccount unmarshals the account as an SPL token account.
func (a *Account) TokenAccount() (*token.Account, error) {
	var state token.Account
	if !state.Unmarshal(a.Data) {
		return nil, solana.ErrInvalidAccountData
	}
	return &state, nil
}

// TokenBalance is the token amount held by the account.
func (a *Account) TokenBalance() (uint64, error) {
	state, err := a.TokenAccount()
	if err != nil {
		return 0, err
	}
	return state.Amount, nil
}

// TokenMint unmarshals the account as an SPL token mint.
func (a *Account) TokenMint() (*token.Mint, error) {
	var state token.Mint
	if !state.Unmarshal(a.Data) {
		return nil, solana.ErrInvalidAccountData
	}
	return &state, nil
}

// initProgramAccount allocates a zeroed program-owned account at the address
// derived from the given seeds and returns the bump. Fails when the target
// is already in use or its address does not match the derivation.
func initProgramAccount(target *Account, program ed25519.PublicKey, size int, seeds ...[]byte) (uint8, error) {
	if !target.IsEmpty() {
		return 0, solana.ErrAccountAlreadyInitialized
	}
	derived, bump, err := solana.FindProgramAddressAndBump(program, seeds...)
	if err != nil {
		return 0, err
	}
	if !bytes.Equal(derived, target.Key) {
		return 0, solana.ErrInvalidArgument
	}
	target.Owner = program
	target.Data = make([]byte, size)
	return bump, nil
}

// initTokenAccount creates a PDA-addressed SPL token account holding the
// given mint with the fund authority as owner.
func initTokenAccount(target, mint *Account, authority ed25519.PublicKey, program ed25519.PublicKey, seeds ...[]byte) (uint8, error) {
	bump, err := initProgramAccount(target, program, token.AccountSize, seeds...)
	if err != nil {
		return 0, err
	}
	target.Owner = token.ProgramKey
	state := token.Account{
		Mint:  mint.Key,
		Owner: authority,
		State: token.AccountStateInitialized,
	}
	target.Data = state.Marshal()
	return bump, nil
}

// initMintAccount creates a PDA-addressed SPL token mint with the fund
// authority as mint authority.
func initMintAccount(target *Account, authority ed25519.PublicKey, decimals uint8, program ed25519.PublicKey, seeds ...[]byte) (uint8, error) {
	bump, err := initProgramAccount(target, program, token.MintSize, seeds...)
	if err != nil {
		return 0, err
	}
	target.Owner = token.ProgramKey
	state := token.Mint{
		MintAuthority: authority,
		Decimals:      decimals,
		IsInitialized: true,
	}
	target.Data = state.Marshal()
	return bump, nil
}

// closeAccount returns the account's lamports to the receiver and releases
// its data.
func closeAccount(target, receiver *Account) {
	receiver.Lamports += target.Lamports
	target.Lamports = 0
	target.Data = nil
	target.Owner = system.ProgramKey[:]
}
