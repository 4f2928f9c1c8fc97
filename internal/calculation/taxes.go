package calculation

import (
	"time"

	"github.com/rgehrsitz/sgprop/internal/domain"
	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// STAMP DUTY ASSUMPTIONS:
//
// 1. BSD uses the four-bracket residential schedule (1/2/3/4%).
//    Additional Buyer's Stamp Duty is not modelled.
//
// 2. SSD rate lookup for a tax amount uses whole years owned, while the
//    countdown and sale-date projections use 365/730/1095 day thresholds.
//    The two can disagree for a day or two around an anniversary in leap
//    years; both granularities are kept as separate operations.

// TaxBracket represents one marginal stamp duty bracket
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal // zero means unbounded
	Rate decimal.Decimal
}

// BSDBrackets is the residential Buyer's Stamp Duty schedule
var BSDBrackets = []TaxBracket{
	{decimal.Zero, decimal.NewFromInt(180000), decimal.NewFromFloat(0.01)},
	{decimal.NewFromInt(180000), decimal.NewFromInt(360000), decimal.NewFromFloat(0.02)},
	{decimal.NewFromInt(360000), decimal.NewFromInt(1000000), decimal.NewFromFloat(0.03)},
	{decimal.NewFromInt(1000000), decimal.Zero, decimal.NewFromFloat(0.04)},
}

// SSD tier boundaries in days since purchase
const (
	ssdTier1Days = 365
	ssdTier2Days = 730
	ssdFreeDays  = 1095

	ssdFreeMonths = 36
)

// CalculateBSD returns the Buyer's Stamp Duty on a purchase price
func CalculateBSD(price decimal.Decimal) decimal.Decimal {
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var total decimal.Decimal
	for _, bracket := range BSDBrackets {
		if price.LessThanOrEqual(bracket.Min) {
			break
		}
		upper := price
		if !bracket.Max.IsZero() {
			upper = decimal.Min(price, bracket.Max)
		}
		total = total.Add(upper.Sub(bracket.Min).Mul(bracket.Rate))
	}
	return total
}

// ssdRateForYears maps whole years owned to the SSD rate in percent
func ssdRateForYears(years int) int {
	switch {
	case years >= 3:
		return 0
	case years >= 2:
		return 4
	case years >= 1:
		return 8
	default:
		return 12
	}
}

// ssdRateForDays maps days owned to the SSD rate in percent
func ssdRateForDays(days int) int {
	switch {
	case days >= ssdFreeDays:
		return 0
	case days >= ssdTier2Days:
		return 4
	case days >= ssdTier1Days:
		return 8
	default:
		return 12
	}
}

// CalculateSSD returns the Seller's Stamp Duty payable if the property is
// sold at salePrice on asOf. The rate is picked by whole years owned.
func CalculateSSD(salePrice decimal.Decimal, purchaseDate, asOf time.Time) decimal.Decimal {
	rate := ssdRateForYears(dateutil.FullYearsBetween(purchaseDate, asOf))
	if rate == 0 {
		return decimal.Zero
	}
	return salePrice.Mul(percent(decimal.NewFromInt(int64(rate))))
}

// SSDCountdownAt reports the SSD tier on asOf and the days until the next tier
func SSDCountdownAt(purchaseDate, asOf time.Time) domain.SSDCountdown {
	years := dateutil.FullYearsBetween(purchaseDate, asOf)
	days := dateutil.DaysBetween(purchaseDate, asOf)

	if years >= 3 || days >= ssdFreeDays {
		return domain.SSDCountdown{
			YearsOwned:        years,
			DaysSincePurchase: days,
			IsExempt:          true,
		}
	}

	countdown := domain.SSDCountdown{
		YearsOwned:        years,
		DaysSincePurchase: days,
	}
	switch {
	case days < ssdTier1Days:
		countdown.CurrentRatePercent = 12
		countdown.NextRatePercent = 8
		countdown.DaysToNextTier = ssdTier1Days - days
	case days < ssdTier2Days:
		countdown.CurrentRatePercent = 8
		countdown.NextRatePercent = 4
		countdown.DaysToNextTier = ssdTier2Days - days
	default:
		countdown.CurrentRatePercent = 4
		countdown.NextRatePercent = 0
		countdown.DaysToNextTier = ssdFreeDays - days
	}
	return countdown
}

// SSDFreeDate is the first date on which the property can be sold without
// SSD: 36 calendar months after purchase.
func SSDFreeDate(purchaseDate time.Time) time.Time {
	return dateutil.AddMonths(purchaseDate, ssdFreeMonths)
}

// DaysToSSDFree counts days from asOf to the SSD-free date. Negative once the
// property is past the date; callers clamp when they need to.
func DaysToSSDFree(purchaseDate, asOf time.Time) int {
	return dateutil.DaysBetween(asOf, SSDFreeDate(purchaseDate))
}

// SSDRateAtSale returns the SSD rate in percent for a sale holdMonths after
// asOf, using the day-threshold tiers.
func SSDRateAtSale(purchaseDate, asOf time.Time, holdMonths int) int {
	saleDate := dateutil.AddMonths(asOf, holdMonths)
	return ssdRateForDays(dateutil.DaysBetween(purchaseDate, saleDate))
}

// MonthsToSSDFree rounds the remaining day-based SSD period up to whole
// months of 30.44 days. Zero once exempt.
func MonthsToSSDFree(purchaseDate, asOf time.Time) int {
	remaining := ssdFreeDays - dateutil.DaysBetween(purchaseDate, asOf)
	if remaining <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(remaining)).Div(daysPerMonth).Ceil().IntPart())
}

// QuoteAgentFeeRate is the agent commission, as a fraction of the sale price,
// assumed by QuoteSSD
var QuoteAgentFeeRate = decimal.NewFromFloat(0.02)

// QuoteSSD estimates SSD and net proceeds for selling at salePrice on asOf
func QuoteSSD(salePrice decimal.Decimal, purchaseDate, asOf time.Time) domain.SSDQuote {
	countdown := SSDCountdownAt(purchaseDate, asOf)
	ssd := CalculateSSD(salePrice, purchaseDate, asOf)
	fees := salePrice.Mul(QuoteAgentFeeRate)

	quote := domain.SSDQuote{
		SalePrice:    salePrice,
		PurchaseDate: purchaseDate,
		AsOf:         asOf,
		SSD:          ssd,
		Countdown:    countdown,
		SSDFreeDate:  SSDFreeDate(purchaseDate),
		AgentFees:    fees,
		NetProceeds:  salePrice.Sub(ssd).Sub(fees),
	}
	if !countdown.IsExempt {
		step := decimal.NewFromInt(int64(countdown.CurrentRatePercent - countdown.NextRatePercent))
		quote.WaitSavings = salePrice.Mul(percent(step))
	}
	return quote
}
