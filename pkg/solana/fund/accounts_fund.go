package fund

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

const FundAccountSize = (8 + // discriminator
	MaxNameLength + // name
	4 + // version
	1 + // fund type
	32 + // admin account
	32 + // fund manager
	32 + // fund program id
	32 + 1 + // fund authority + bump
	32 + 1 + // fund token mint + bump
	32 + 1 + // info account + bump
	32 + 1 + // vaults assets info + bump
	32 + 1 + // custodies assets info + bump
	32 + 1 + // liquidation state + bump
	1) // metadata bump

var FundAccountDiscriminator = discriminator(AccountTypeFund)

// Fund is the top-level managed-pool record: immutable config plus the
// derived addresses of every companion account. It is created once at
// registration and only touched by rare admin actions. Every stored address
// must re-derive from its seeds and the fund program id; handlers compare on
// every use and fail closed on mismatch.
type Fund struct {
	Name    string
	Version uint32
	Type    FundType

	AdminAccount  ed25519.PublicKey
	FundManager   ed25519.PublicKey
	FundProgramID ed25519.PublicKey

	FundAuthority ed25519.PublicKey
	AuthorityBump uint8

	FundTokenMint ed25519.PublicKey
	FundTokenBump uint8

	InfoAccount ed25519.PublicKey
	InfoBump    uint8

	VaultsAssetsInfo ed25519.PublicKey
	VaultsAssetsBump uint8

	CustodiesAssetsInfo ed25519.PublicKey
	CustodiesAssetsBump uint8

	LiquidationState     ed25519.PublicKey
	LiquidationStateBump uint8

	MetadataBump uint8
}

func (obj *Fund) Marshal() []byte {
	b := make([]byte, FundAccountSize)

	var offset int
	putDiscriminator(b, FundAccountDiscriminator, &offset)
	binary.PutFixedString(b, obj.Name, MaxNameLength, &offset)
	binary.PutUint32(b, obj.Version, &offset)
	binary.PutUint8(b, uint8(obj.Type), &offset)
	binary.PutKey32(b, obj.AdminAccount, &offset)
	binary.PutKey32(b, obj.FundManager, &offset)
	binary.PutKey32(b, obj.FundProgramID, &offset)
	binary.PutKey32(b, obj.FundAuthority, &offset)
	binary.PutUint8(b, obj.AuthorityBump, &offset)
	binary.PutKey32(b, obj.FundTokenMint, &offset)
	binary.PutUint8(b, obj.FundTokenBump, &offset)
	binary.PutKey32(b, obj.InfoAccount, &offset)
	binary.PutUint8(b, obj.InfoBump, &offset)
	binary.PutKey32(b, obj.VaultsAssetsInfo, &offset)
	binary.PutUint8(b, obj.VaultsAssetsBump, &offset)
	binary.PutKey32(b, obj.CustodiesAssetsInfo, &offset)
	binary.PutUint8(b, obj.CustodiesAssetsBump, &offset)
	binary.PutKey32(b, obj.LiquidationState, &offset)
	binary.PutUint8(b, obj.LiquidationStateBump, &offset)
	binary.PutUint8(b, obj.MetadataBump, &offset)

	return b
}

func (obj *Fund) Unmarshal(data []byte) error {
	if len(data) < FundAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var disc []byte
	getDiscriminator(data, &disc, &offset)
	if !bytes.Equal(disc, FundAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	binary.GetFixedString(data, &obj.Name, MaxNameLength, &offset)
	binary.GetUint32(data, &obj.Version, &offset)
	var fundType uint8
	binary.GetUint8(data, &fundType, &offset)
	obj.Type = FundType(fundType)
	binary.GetKey32(data, &obj.AdminAccount, &offset)
	binary.GetKey32(data, &obj.FundManager, &offset)
	binary.GetKey32(data, &obj.FundProgramID, &offset)
	binary.GetKey32(data, &obj.FundAuthority, &offset)
	binary.GetUint8(data, &obj.AuthorityBump, &offset)
	binary.GetKey32(data, &obj.FundTokenMint, &offset)
	binary.GetUint8(data, &obj.FundTokenBump, &offset)
	binary.GetKey32(data, &obj.InfoAccount, &offset)
	binary.GetUint8(data, &obj.InfoBump, &offset)
	binary.GetKey32(data, &obj.VaultsAssetsInfo, &offset)
	binary.GetUint8(data, &obj.VaultsAssetsBump, &offset)
	binary.GetKey32(data, &obj.CustodiesAssetsInfo, &offset)
	binary.GetUint8(data, &obj.CustodiesAssetsBump, &offset)
	binary.GetKey32(data, &obj.LiquidationState, &offset)
	binary.GetUint8(data, &obj.LiquidationStateBump, &offset)
	binary.GetUint8(data, &obj.MetadataBump, &offset)

	return nil
}

func (obj *Fund) String() string {
	return fmt.Sprintf(
		"Fund{name=%s,version=%d,admin=%s,manager=%s,program=%s,authority=%s,mint=%s}",
		obj.Name,
		obj.Version,
		base58.Encode(obj.AdminAccount),
		base58.Encode(obj.FundManager),
		base58.Encode(obj.FundProgramID),
		base58.Encode(obj.FundAuthority),
		base58.Encode(obj.FundTokenMint),
	)
}
