package notifier

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/sgprop/internal/calculation"
	"github.com/shopspring/decimal"
)

// sgDateLayout matches the en-SG short date, e.g. 15/06/2025
const sgDateLayout = "02/01/2006"

// FormatSSDCountdown announces that a property becomes SSD-free in daysToFree days.
func FormatSSDCountdown(name string, daysToFree int, ssdFreeDate time.Time) string {
	return fmt.Sprintf("🎉 Your property %s will be SSD-free in %d days! (SSD-free date: %s)",
		name, daysToFree, ssdFreeDate.Format(sgDateLayout))
}

// FormatSSDFree announces that a property is SSD-free today.
func FormatSSDFree(name string) string {
	return fmt.Sprintf("🎊 Congratulations! %s is now SSD-FREE! You can sell without paying Seller Stamp Duty.", name)
}

// FormatProfitTarget announces that a property reached its profit target.
func FormatProfitTarget(name string, profitPct, targetPct, currentValue decimal.Decimal) string {
	return fmt.Sprintf("🎯 Target reached! %s has hit %s%% profit (target: %s%%). Current value: %s",
		name, profitPct.StringFixed(2), targetPct.StringFixed(2), calculation.FormatSGD(currentValue))
}

// FormatTestMessage confirms that the Telegram settings can deliver alerts.
func FormatTestMessage() string {
	return "✅ Test message from sgprop. Telegram alerts are connected."
}
