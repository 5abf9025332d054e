// Package pyth reads Pyth-style price-feed accounts. A feed reports an
// aggregate (price, confidence, exponent) pair plus the slot it was last
// valid at; consumers are expected to reject non-trading or stale readings.
package pyth

import (
	"github.com/askibin/solana-program-library/pkg/solana/binary"
	"github.com/pkg/errors"
)

const Magic = 0xa1b2c3d4

const Version = 2

const PriceAccountSize = (4 + // magic
	4 + // version
	4 + // price type
	4 + // exponent
	8 + // aggregate price
	8 + // aggregate confidence
	4 + // status
	8 + // valid slot
	8) // publish slot

var (
	ErrInvalidPriceAccount = errors.New("invalid price account")
)

type PriceType uint32

const (
	PriceTypeUnknown PriceType = iota
	PriceTypePrice
)

type PriceStatus uint32

const (
	PriceStatusUnknown PriceStatus = iota
	PriceStatusTrading
	PriceStatusHalted
	PriceStatusAuction
)

func (s PriceStatus) String() string {
	switch s {
	case PriceStatusTrading:
		return "trading"
	case PriceStatusHalted:
		return "halted"
	case PriceStatusAuction:
		return "auction"
	}
	return "unknown"
}

// Price is the aggregate reading of a single price feed.
type Price struct {
	PriceType PriceType
	// Price is expressed as an integer scaled by 10^Exponent.
	Exponent    int32
	Price       int64
	Confidence  uint64
	Status      PriceStatus
	ValidSlot   uint64
	PublishSlot uint64
}

func (p *Price) Marshal() []byte {
	b := make([]byte, PriceAccountSize)

	var offset int
	binary.PutUint32(b, Magic, &offset)
	binary.PutUint32(b, Version, &offset)
	binary.PutUint32(b, uint32(p.PriceType), &offset)
	binary.PutInt32(b, p.Exponent, &offset)
	binary.PutInt64(b, p.Price, &offset)
	binary.PutUint64(b, p.Confidence, &offset)
	binary.PutUint32(b, uint32(p.Status), &offset)
	binary.PutUint64(b, p.ValidSlot, &offset)
	binary.PutUint64(b, p.PublishSlot, &offset)

	return b
}

func (p *Price) Unmarshal(b []byte) error {
	if len(b) < PriceAccountSize {
		return ErrInvalidPriceAccount
	}

	var offset int
	var magic, version uint32
	binary.GetUint32(b, &magic, &offset)
	binary.GetUint32(b, &version, &offset)
	if magic != Magic {
		return errors.Wrap(ErrInvalidPriceAccount, "bad magic")
	}
	if version != Version {
		return errors.Wrap(ErrInvalidPriceAccount, "unsupported version")
	}

	var priceType, status uint32
	binary.GetUint32(b, &priceType, &offset)
	p.PriceType = PriceType(priceType)
	binary.GetInt32(b, &p.Exponent, &offset)
	binary.GetInt64(b, &p.Price, &offset)
	binary.GetUint64(b, &p.Confidence, &offset)
	binary.GetUint32(b, &status, &offset)
	p.Status = PriceStatus(status)
	binary.GetUint64(b, &p.ValidSlot, &offset)
	binary.GetUint64(b, &p.PublishSlot, &offset)

	return nil
}
