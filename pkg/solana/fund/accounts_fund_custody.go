package fund

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

const FundCustodyAccountSize = (8 + // discriminator
	32 + // fund ref
	4 + // custody id
	1 + // custody type
	MaxNameLength + // token name
	32 + // token mint
	1 + // token decimals
	32 + // custody token account
	32 + // fees token account
	32 + // oracle price account
	4 + // liquidation id
	8 + // liquidation token amount
	1) // bump

var FundCustodyAccountDiscriminator = discriminator(AccountTypeFundCustody)

// FundCustody is the metadata record of a single (token, custody-type)
// vault pair: the custody token account holding assets, the companion fees
// account and the oracle feed used to value the token. The record's own
// address and both token accounts are PDAs seeded by custody type, token
// name and fund name.
type FundCustody struct {
	FundRef ed25519.PublicKey

	CustodyID   uint32
	CustodyType CustodyType

	TokenName     string
	TokenMint     ed25519.PublicKey
	TokenDecimals uint8

	Address     ed25519.PublicKey
	FeesAddress ed25519.PublicKey

	OracleAccount ed25519.PublicKey

	LiquidationID          uint32
	LiquidationTokenAmount uint64

	Bump uint8
}

func (obj *FundCustody) Marshal() []byte {
	b := make([]byte, FundCustodyAccountSize)

	var offset int
	putDiscriminator(b, FundCustodyAccountDiscriminator, &offset)
	binary.PutKey32(b, obj.FundRef, &offset)
	binary.PutUint32(b, obj.CustodyID, &offset)
	binary.PutUint8(b, uint8(obj.CustodyType), &offset)
	binary.PutFixedString(b, obj.TokenName, MaxNameLength, &offset)
	binary.PutKey32(b, obj.TokenMint, &offset)
	binary.PutUint8(b, obj.TokenDecimals, &offset)
	binary.PutKey32(b, obj.Address, &offset)
	binary.PutKey32(b, obj.FeesAddress, &offset)
	binary.PutKey32(b, obj.OracleAccount, &offset)
	binary.PutUint32(b, obj.LiquidationID, &offset)
	binary.PutUint64(b, obj.LiquidationTokenAmount, &offset)
	binary.PutUint8(b, obj.Bump, &offset)

	return b
}

func (obj *FundCustody) Unmarshal(data []byte) error {
	if len(data) < FundCustodyAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var disc []byte
	getDiscriminator(data, &disc, &offset)
	if !bytes.Equal(disc, FundCustodyAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	binary.GetKey32(data, &obj.FundRef, &offset)
	binary.GetUint32(data, &obj.CustodyID, &offset)
	var custodyType uint8
	binary.GetUint8(data, &custodyType, &offset)
	obj.CustodyType = CustodyType(custodyType)
	binary.GetFixedString(data, &obj.TokenName, MaxNameLength, &offset)
	binary.GetKey32(data, &obj.TokenMint, &offset)
	binary.GetUint8(data, &obj.TokenDecimals, &offset)
	binary.GetKey32(data, &obj.Address, &offset)
	binary.GetKey32(data, &obj.FeesAddress, &offset)
	binary.GetKey32(data, &obj.OracleAccount, &offset)
	binary.GetUint32(data, &obj.LiquidationID, &offset)
	binary.GetUint64(data, &obj.LiquidationTokenAmount, &offset)
	binary.GetUint8(data, &obj.Bump, &offset)

	return nil
}

func (obj *FundCustody) String() string {
	return fmt.Sprintf(
		"FundCustody{token=%s,type=%s,address=%s,fees=%s,oracle=%s}",
		obj.TokenName,
		obj.CustodyType,
		base58.Encode(obj.Address),
		base58.Encode(obj.FeesAddress),
		base58.Encode(obj.OracleAccount),
	)
}
