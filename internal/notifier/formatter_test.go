package notifier

import (
	"testing"

	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatSSDCountdown(t *testing.T) {
	msg := FormatSSDCountdown("Tampines Condo", 7, dateutil.Date(2025, 6, 15))
	assert.Equal(t, "🎉 Your property Tampines Condo will be SSD-free in 7 days! (SSD-free date: 15/06/2025)", msg)
}

func TestFormatSSDFree(t *testing.T) {
	assert.Equal(t,
		"🎊 Congratulations! Bishan HDB is now SSD-FREE! You can sell without paying Seller Stamp Duty.",
		FormatSSDFree("Bishan HDB"))
}

func TestFormatProfitTarget(t *testing.T) {
	msg := FormatProfitTarget("Tampines Condo",
		decimal.RequireFromString("16.456"), decimal.NewFromInt(15), decimal.NewFromInt(612000))
	assert.Equal(t, "🎯 Target reached! Tampines Condo has hit 16.46% profit (target: 15.00%). Current value: S$612,000", msg)
}

func TestFormatTestMessage(t *testing.T) {
	assert.Contains(t, FormatTestMessage(), "Telegram alerts are connected")
}
