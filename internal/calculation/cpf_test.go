package calculation

import (
	"math"
	"testing"

	"github.com/rgehrsitz/sgprop/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCPFAccruedInterest(t *testing.T) {
	cpf := decimal.NewFromInt(150000)
	purchase := dateutil.Date(2022, 6, 15)

	t.Run("zero amount", func(t *testing.T) {
		assert.True(t, CPFAccruedInterest(decimal.Zero, purchase, evaluationDate).IsZero())
	})

	t.Run("no elapsed time", func(t *testing.T) {
		assert.True(t, CPFAccruedInterest(cpf, purchase, purchase).IsZero())
		assert.True(t, CPFAccruedInterest(cpf, evaluationDate, purchase).IsZero())
	})

	t.Run("two years", func(t *testing.T) {
		years := 731.0 / 365.25
		expected := 150000*math.Pow(1.025, years) - 150000
		result := CPFAccruedInterest(cpf, purchase, evaluationDate)
		assert.InDelta(t, expected, result.InexactFloat64(), 0.01)
		assert.InDelta(t, 7599, result.InexactFloat64(), 5)
	})
}

func TestCPFRefundAtSale(t *testing.T) {
	cpf := decimal.NewFromInt(150000)
	purchase := dateutil.Date(2022, 6, 15)

	now := CPFRefundAtSale(cpf, purchase, evaluationDate, 0)
	accrued := CPFAccruedInterest(cpf, purchase, evaluationDate)
	assert.InDelta(t, cpf.Add(accrued).InexactFloat64(), now.InexactFloat64(), 0.0001)

	inAYear := CPFRefundAtSale(cpf, purchase, evaluationDate, 12)
	assert.True(t, inAYear.GreaterThan(now))

	assert.True(t, CPFRefundAtSale(decimal.Zero, purchase, evaluationDate, 12).IsZero())
	assert.True(t, CPFRefundAtSale(decimal.NewFromInt(-1), purchase, evaluationDate, 12).IsZero())
}
