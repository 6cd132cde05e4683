package cart

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsFor(t *testing.T, lines ...Line) Totals {
	t.Helper()
	cart := &Cart{Lines: lines}
	return ComputeTotals(cart, decimal.RequireFromString("15.00"), decimal.RequireFromString("100.00"))
}

func line(price string, qty int) Line {
	return Line{
		ProductID: uuid.New(),
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestTotalsChargeFlatShippingBelowThreshold(t *testing.T) {
	totals := totalsFor(t, line("40.00", 2))
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("80.00")))
	assert.True(t, totals.Shipping.Equal(decimal.RequireFromString("15.00")))
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("95.00")))
	assert.Equal(t, 2, totals.ItemCount)
}

func TestTotalsWaiveShippingAtThreshold(t *testing.T) {
	totals := totalsFor(t, line("50.00", 2))
	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("100.00")))
}

func TestTotalsEmptyCartShipsFree(t *testing.T) {
	totals := totalsFor(t)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.Zero(t, totals.ItemCount)
}

func TestCartDocumentRoundTrip(t *testing.T) {
	cart := &Cart{Lines: []Line{line("19.90", 3)}}
	payload, err := json.Marshal(cart)
	require.NoError(t, err)

	var decoded Cart
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded.Lines, 1)
	assert.True(t, decoded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 3, decoded.Lines[0].Quantity)
}
