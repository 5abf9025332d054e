package fund

import (
	"bytes"

	"github.com/askibin/solana-program-library/pkg/solana/binary"
)

const FundScheduleSize = (8 + // start time
	8 + // end time
	1 + // approval required
	8 + // limit usd
	8) // fee

const FundAssetsTrackingConfigSize = (8 + // assets limit usd
	8 + // max update age sec
	8 + // max price error
	8) // max price age sec

const FundInfoAccountSize = (8 + // discriminator
	FundScheduleSize + // deposit schedule
	FundScheduleSize + // withdrawal schedule
	FundAssetsTrackingConfigSize + // assets tracking config
	8 + // amount invested usd
	8 + // amount removed usd
	8 + // current assets usd
	8 + // vaults assets usd
	8 + // custodies assets usd
	8 + // assets update time
	8 + // admin action time
	8 + // liquidation start time
	1) // bump

var FundInfoAccountDiscriminator = discriminator(AccountTypeFundInfo)

// FundSchedule is a deposit or withdrawal window. A window with a zero
// StartTime is closed. Fee is a fraction in [0, 1] applied to every request.
type FundSchedule struct {
	StartTime        int64
	EndTime          int64
	ApprovalRequired bool
	LimitUSD         float64
	Fee              float64
}

func (s *FundSchedule) pack(dst []byte, offset *int) {
	binary.PutInt64(dst, s.StartTime, offset)
	binary.PutInt64(dst, s.EndTime, offset)
	binary.PutBool(dst, s.ApprovalRequired, offset)
	binary.PutFloat64(dst, s.LimitUSD, offset)
	binary.PutFloat64(dst, s.Fee, offset)
}

func (s *FundSchedule) unpack(src []byte, offset *int) {
	binary.GetInt64(src, &s.StartTime, offset)
	binary.GetInt64(src, &s.EndTime, offset)
	binary.GetBool(src, &s.ApprovalRequired, offset)
	binary.GetFloat64(src, &s.LimitUSD, offset)
	binary.GetFloat64(src, &s.Fee, offset)
}

// IsOpen reports whether the window is open at the given unix time.
func (s *FundSchedule) IsOpen(now int64) bool {
	return s.StartTime > 0 && s.StartTime <= now && now < s.EndTime
}

// FundAssetsTrackingConfig bounds how NAV is computed: the total USD the fund
// may hold, how old the tracked NAV may be, and how imprecise or old an
// oracle reading may be before valuations are refused.
type FundAssetsTrackingConfig struct {
	AssetsLimitUSD  float64
	MaxUpdateAgeSec uint64
	MaxPriceError   float64
	MaxPriceAgeSec  uint64
}

func (c *FundAssetsTrackingConfig) pack(dst []byte, offset *int) {
	binary.PutFloat64(dst, c.AssetsLimitUSD, offset)
	binary.PutUint64(dst, c.MaxUpdateAgeSec, offset)
	binary.PutFloat64(dst, c.MaxPriceError, offset)
	binary.PutUint64(dst, c.MaxPriceAgeSec, offset)
}

func (c *FundAssetsTrackingConfig) unpack(src []byte, offset *int) {
	binary.GetFloat64(src, &c.AssetsLimitUSD, offset)
	binary.GetUint64(src, &c.MaxUpdateAgeSec, offset)
	binary.GetFloat64(src, &c.MaxPriceError, offset)
	binary.GetUint64(src, &c.MaxPriceAgeSec, offset)
}

// FundInfo is the fund's mutable aggregate state: schedules, tracking
// config, running totals and timestamps. One record per fund.
//
// Invariants: CurrentAssetsUSD never goes negative (clamped on withdrawal)
// and schedule windows always satisfy StartTime < EndTime.
type FundInfo struct {
	DepositSchedule    FundSchedule
	WithdrawalSchedule FundSchedule
	AssetsConfig       FundAssetsTrackingConfig

	AmountInvestedUSD float64
	AmountRemovedUSD  float64
	CurrentAssetsUSD  float64

	// Last completed refresh-cycle total per tracker. CurrentAssetsUSD is
	// restamped as their sum whenever either cycle completes.
	VaultsAssetsUSD    float64
	CustodiesAssetsUSD float64

	AssetsUpdateTime int64
	AdminActionTime  int64

	// Zero when the fund is not liquidating.
	LiquidationStartTime int64

	Bump uint8
}

func (obj *FundInfo) Marshal() []byte {
	b := make([]byte, FundInfoAccountSize)

	var offset int
	putDiscriminator(b, FundInfoAccountDiscriminator, &offset)
	obj.DepositSchedule.pack(b, &offset)
	obj.WithdrawalSchedule.pack(b, &offset)
	obj.AssetsConfig.pack(b, &offset)
	binary.PutFloat64(b, obj.AmountInvestedUSD, &offset)
	binary.PutFloat64(b, obj.AmountRemovedUSD, &offset)
	binary.PutFloat64(b, obj.CurrentAssetsUSD, &offset)
	binary.PutFloat64(b, obj.VaultsAssetsUSD, &offset)
	binary.PutFloat64(b, obj.CustodiesAssetsUSD, &offset)
	binary.PutInt64(b, obj.AssetsUpdateTime, &offset)
	binary.PutInt64(b, obj.AdminActionTime, &offset)
	binary.PutInt64(b, obj.LiquidationStartTime, &offset)
	binary.PutUint8(b, obj.Bump, &offset)

	return b
}

func (obj *FundInfo) Unmarshal(data []byte) error {
	if len(data) < FundInfoAccountSize {
		return ErrInvalidAccountData
	}

	var offset int

	var disc []byte
	getDiscriminator(data, &disc, &offset)
	if !bytes.Equal(disc, FundInfoAccountDiscriminator) {
		return ErrInvalidAccountData
	}

	obj.DepositSchedule.unpack(data, &offset)
	obj.WithdrawalSchedule.unpack(data, &offset)
	obj.AssetsConfig.unpack(data, &offset)
	binary.GetFloat64(data, &obj.AmountInvestedUSD, &offset)
	binary.GetFloat64(data, &obj.AmountRemovedUSD, &offset)
	binary.GetFloat64(data, &obj.CurrentAssetsUSD, &offset)
	binary.GetFloat64(data, &obj.VaultsAssetsUSD, &offset)
	binary.GetFloat64(data, &obj.CustodiesAssetsUSD, &offset)
	binary.GetInt64(data, &obj.AssetsUpdateTime, &offset)
	binary.GetInt64(data, &obj.AdminActionTime, &offset)
	binary.GetInt64(data, &obj.LiquidationStartTime, &offset)
	binary.GetUint8(data, &obj.Bump, &offset)

	return nil
}

// IsDepositAllowed reports whether the deposit window is open at now.
func (obj *FundInfo) IsDepositAllowed(now int64) bool {
	return obj.DepositSchedule.IsOpen(now)
}

// IsWithdrawalAllowed reports whether the withdrawal window is open at now.
func (obj *FundInfo) IsWithdrawalAllowed(now int64) bool {
	return obj.WithdrawalSchedule.IsOpen(now)
}

// IsLiquidating reports whether the fund entered liquidation mode.
func (obj *FundInfo) IsLiquidating() bool {
	return obj.LiquidationStartTime > 0
}
