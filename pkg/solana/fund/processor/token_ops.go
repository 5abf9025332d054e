package processor

import (
	"bytes"
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana"
	"github.com/askibin/solana-program-library/pkg/solana/token"
)

// Token operations follow SPL token authority rules: the authority must be
// the account owner, or a delegate spending within its delegated allowance.
// Handlers are responsible for proving the authority itself, either a user
// signature or the fund authority PDA acting under program signature.

func transferTokens(from, to *Account, authority ed25519.PublicKey, amount uint64) error {
	src, err := from.TokenAccount()
	if err != nil {
		return err
	}
	dst, err := to.TokenAccount()
	if err != nil {
		return err
	}
	if !bytes.Equal(src.Mint, dst.Mint) {
		return solana.ErrInvalidArgument
	}
	if src.Amount < amount {
		return solana.ErrInsufficientFunds
	}

	if err := spendAuthority(src, authority, amount); err != nil {
		return err
	}
	src.Amount -= amount
	dst.Amount += amount

	from.Data = src.Marshal()
	to.Data = dst.Marshal()
	return nil
}

func approveDelegate(account *Account, delegate, owner ed25519.PublicKey, amount uint64) error {
	state, err := account.TokenAccount()
	if err != nil {
		return err
	}
	if !bytes.Equal(state.Owner, owner) {
		return solana.ErrIllegalOwner
	}
	state.Delegate = delegate
	state.DelegatedAmount = amount
	account.Data = state.Marshal()
	return nil
}

func revokeDelegate(account *Account, owner ed25519.PublicKey) error {
	state, err := account.TokenAccount()
	if err != nil {
		return err
	}
	if !bytes.Equal(state.Owner, owner) {
		return solana.ErrIllegalOwner
	}
	state.Delegate = nil
	state.DelegatedAmount = 0
	account.Data = state.Marshal()
	return nil
}

func mintTo(mint, dest *Account, authority ed25519.PublicKey, amount uint64) error {
	mintState, err := mint.TokenMint()
	if err != nil {
		return err
	}
	dstState, err := dest.TokenAccount()
	if err != nil {
		return err
	}
	if !bytes.Equal(mintState.MintAuthority, authority) {
		return solana.ErrIllegalOwner
	}
	if !bytes.Equal(dstState.Mint, mint.Key) {
		return solana.ErrInvalidArgument
	}

	mintState.Supply += amount
	dstState.Amount += amount

	mint.Data = mintState.Marshal()
	dest.Data = dstState.Marshal()
	return nil
}

func burnTokens(account, mint *Account, authority ed25519.PublicKey, amount uint64) error {
	state, err := account.TokenAccount()
	if err != nil {
		return err
	}
	mintState, err := mint.TokenMint()
	if err != nil {
		return err
	}
	if !bytes.Equal(state.Mint, mint.Key) {
		return solana.ErrInvalidArgument
	}
	if state.Amount < amount || mintState.Supply < amount {
		return solana.ErrInsufficientFunds
	}

	if err := spendAuthority(state, authority, amount); err != nil {
		return err
	}
	state.Amount -= amount
	mintState.Supply -= amount

	account.Data = state.Marshal()
	mint.Data = mintState.Marshal()
	return nil
}

func closeTokenAccount(account, receiver *Account, authority ed25519.PublicKey) error {
	state, err := account.TokenAccount()
	if err != nil {
		return err
	}
	if !bytes.Equal(state.Owner, authority) {
		return solana.ErrIllegalOwner
	}
	if state.Amount != 0 {
		return solana.ErrInvalidAccountData
	}
	closeAccount(account, receiver)
	return nil
}

// spendAuthority validates the authority against the source account and
// consumes the delegated allowance when spending as a delegate.
func spendAuthority(state *token.Account, authority ed25519.PublicKey, amount uint64) error {
	if bytes.Equal(state.Owner, authority) {
		return nil
	}
	if bytes.Equal(state.Delegate, authority) {
		if state.DelegatedAmount < amount {
			return solana.ErrInsufficientFunds
		}
		state.DelegatedAmount -= amount
		if state.DelegatedAmount == 0 {
			state.Delegate = nil
		}
		return nil
	}
	return solana.ErrIllegalOwner
}
