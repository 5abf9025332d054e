package fund

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

const FundUserActionSize = (8 + // time
	8) // amount

const FundUserInfoAccountSize = (8 + // discriminator
	32 + // fund ref
	MaxNameLength + // token name
	FundUserActionSize + // deposit request
	FundUserActionSize + // last deposit
	FundUserActionSize + // withdrawal request
	FundUserActionSize + // last withdrawal
	MaxNameLength + // deny reason
	1) // bump

var FundUserInfoAccountDiscriminator = discriminator(AccountTypeFundUserInfo)

// FundUserAction is a timestamped amount: either a pending request or the
// user's last completed action.
type FundUserAction struct {
	Time   int64
	Amount uint64
}

func (a *FundUserAction) pack(dst []byte, offset *int) {
	binary.PutInt64(dst, a.Time, offset)
	binary.PutUint64(dst, a.Amount, offset)
}

func (a *FundUserAction) unpack(src []byte, offset *int) {
	binary.GetInt64(src, &a.Time, offset)
	binary.GetUint64(src, &a.Amount, offset)
}

// FundUserInfo tracks one (user, fund, token) tuple: the pending deposit or
// withdrawal request, the last completed actions and the reason the previous
// request was denied, if any. Created once per tuple and never destroyed.
//
// At most one of DepositRequest.Amount and WithdrawalRequest.Amount is
// nonzero at any committed state; a new request of either kind is rejected
// while the other is pending.
type FundUserInfo struct {
	FundRef   ed25519.PublicKey
	TokenName string

	DepositRequest FundUserAction
	LastDeposit    FundUserAction

	WithdrawalRequest FundUserAction
	LastWithdrawal    FundUserAction

	DenyReason string

	Bump uint8
}

func (obj *FundUserInfo) Marshal() []byte {
	b := make([]byte, FundUserInfoAccountSize)

	var offset int
	putDiscriminator(b, FundUserInfoAccountDiscriminator, &offset)
	binary.PutKey32(b, obj.FundRef, &offset)
	binary.PutFixedString(b, obj.TokenName, MaxNameLength, &offset)
	obj.DepositRequest.pack(b, &offset)
	obj.LastDeposit.pack(b, &offset)
	obj.WithdrawalRequest.pack(b, &offset)
	obj.LastWithdrawal.pack(b, &offset)
	binary.PutFixedString(b, obj.DenyReason, MaxNameLength, &offset)
	binary.PutUint8(b, obj.Bump, &offset)

	return b
}

func (obj *FundUserInfo) Unmarshal(data []byte) error {
	if len(data) < FundUserInfoAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var disc []byte
	getDiscriminator(data, &disc, &offset)
	if !bytes.Equal(disc, FundUserInfoAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	binary.GetKey32(data, &obj.FundRef, &offset)
	binary.GetFixedString(data, &obj.TokenName, MaxNameLength, &offset)
	obj.DepositRequest.unpack(data, &offset)
	obj.LastDeposit.unpack(data, &offset)
	obj.WithdrawalRequest.unpack(data, &offset)
	obj.LastWithdrawal.unpack(data, &offset)
	binary.GetFixedString(data, &obj.DenyReason, MaxNameLength, &offset)
	binary.GetUint8(data, &obj.Bump, &offset)

	return nil
}

func (obj *FundUserInfo) String() string {
	return fmt.Sprintf(
		"FundUserInfo{token=%s,deposit_request=%d,withdrawal_request=%d}",
		obj.TokenName,
		obj.DepositRequest.Amount,
		obj.WithdrawalRequest.Amount,
	)
}
