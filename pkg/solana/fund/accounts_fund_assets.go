package fund

import (
	"bytes"
	"crypto/ed25519"

	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

const FundAssetsAccountSize = (8 + // discriminator
	32 + // fund ref
	1 + // asset type
	8 + // target hash
	8 + // current hash
	8 + // current assets usd
	8 + // cycle end time
	1) // bump

var FundAssetsAccountDiscriminator = discriminator(AccountTypeFundAssets)

// FundAssets aggregates the tracked balances of one asset class (vaults or
// custodies). TargetHash is the client-computed rolling hash over the
// expected member set; CurrentHash is rebuilt on-chain as each member's
// balance is refreshed. The pair is an optimistic-concurrency token: a
// member added or removed out-of-band leaves CurrentHash unable to reach
// TargetHash and the refresh cycle never completes.
type FundAssets struct {
	FundRef   ed25519.PublicKey
	AssetType AssetType

	TargetHash  uint64
	CurrentHash uint64

	CurrentAssetsUSD float64
	CycleEndTime     int64

	Bump uint8
}

func (obj *FundAssets) Marshal() []byte {
	b := make([]byte, FundAssetsAccountSize)

	var offset int
	putDiscriminator(b, FundAssetsAccountDiscriminator, &offset)
	binary.PutKey32(b, obj.FundRef, &offset)
	binary.PutUint8(b, uint8(obj.AssetType), &offset)
	binary.PutUint64(b, obj.TargetHash, &offset)
	binary.PutUint64(b, obj.CurrentHash, &offset)
	binary.PutFloat64(b, obj.CurrentAssetsUSD, &offset)
	binary.PutInt64(b, obj.CycleEndTime, &offset)
	binary.PutUint8(b, obj.Bump, &offset)

	return b
}

func (obj *FundAssets) Unmarshal(data []byte) error {
	if len(data) < FundAssetsAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var disc []byte
	getDiscriminator(data, &disc, &offset)
	if !bytes.Equal(disc, FundAssetsAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	binary.GetKey32(data, &obj.FundRef, &offset)
	var assetType uint8
	binary.GetUint8(data, &assetType, &offset)
	obj.AssetType = AssetType(assetType)
	binary.GetUint64(data, &obj.TargetHash, &offset)
	binary.GetUint64(data, &obj.CurrentHash, &offset)
	binary.GetFloat64(data, &obj.CurrentAssetsUSD, &offset)
	binary.GetInt64(data, &obj.CycleEndTime, &offset)
	binary.GetUint8(data, &obj.Bump, &offset)

	return nil
}
