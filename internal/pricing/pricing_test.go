package pricing_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kongbun/internal/pricing"
)

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		mode    pricing.Mode
		wantErr error
	}

	tests := []testCase{
		{name: "Fixed", mode: pricing.Fixed{Price: 100, StockLimit: 10}},
		{name: "Open", mode: pricing.Open{}},
		{name: "ZeroPrice", mode: pricing.Fixed{Price: 0, StockLimit: 10}, wantErr: pricing.ErrInvalidUnitPrice},
		{name: "ZeroStock", mode: pricing.Fixed{Price: 100, StockLimit: 0}, wantErr: pricing.ErrInvalidStockLimit},
		{name: "Nil", mode: nil, wantErr: pricing.ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pricing.Validate(tt.mode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestValue(t *testing.T) {
	assert.True(t, pricing.Value(pricing.Fixed{Price: 100, StockLimit: 10}, 3).Equal(decimal.NewFromInt(300)))
	assert.True(t, pricing.Value(pricing.Open{}, 8).Equal(decimal.NewFromInt(8)))

	// Larger than int64 must not wrap.
	big := pricing.ValueAt(1<<62, 4)
	assert.Equal(t, "18446744073709551616", big.String())
}

func TestOpenStockIsUnlimited(t *testing.T) {
	stock := pricing.Open{}.Stock()
	assert.True(t, stock.Unlimited)

	b, err := json.Marshal(stock)
	require.NoError(t, err)
	assert.JSONEq(t, `"unlimited"`, string(b))

	b, err = json.Marshal(pricing.Fixed{Price: 100, StockLimit: 10}.Stock())
	require.NoError(t, err)
	assert.JSONEq(t, `10`, string(b))
}

func TestEncodeDecode(t *testing.T) {
	kind, price, stock := pricing.Encode(pricing.Open{})
	assert.Equal(t, pricing.KindOpen, kind)
	assert.Equal(t, int64(1), price)
	assert.Zero(t, stock)

	m, err := pricing.Decode(kind, price, stock)
	require.NoError(t, err)
	assert.Equal(t, pricing.Open{}, m)

	kind, price, stock = pricing.Encode(pricing.Fixed{Price: 100, StockLimit: 10})
	m, err = pricing.Decode(kind, price, stock)
	require.NoError(t, err)
	assert.Equal(t, pricing.Fixed{Price: 100, StockLimit: 10}, m)

	_, err = pricing.Decode(pricing.KindFixed, 0, 10)
	assert.ErrorIs(t, err, pricing.ErrInvalidUnitPrice)

	_, err = pricing.Decode("tiered", 1, 1)
	assert.ErrorIs(t, err, pricing.ErrUnknownKind)
}

func TestSameKind(t *testing.T) {
	assert.True(t, pricing.SameKind(pricing.Fixed{Price: 1, StockLimit: 1}, pricing.Fixed{Price: 5, StockLimit: 9}))
	assert.False(t, pricing.SameKind(pricing.Fixed{Price: 1, StockLimit: 1}, pricing.Open{}))
	assert.False(t, pricing.SameKind(nil, pricing.Open{}))
}

func TestDescribe(t *testing.T) {
	type testCase struct {
		name  string
		mode  pricing.Mode
		total int64
		want  pricing.Display
	}

	tests := []testCase{
		{
			name:  "OpenUsesFaithLabel",
			mode:  pricing.Open{},
			total: 8,
			want:  pricing.Display{Price: pricing.FaithLabel, Stock: pricing.FaithLabel, Total: "8 (บาท)"},
		},
		{
			name:  "OpenIgnoresVolume",
			mode:  pricing.Open{},
			total: 12345,
			want:  pricing.Display{Price: pricing.FaithLabel, Stock: pricing.FaithLabel, Total: "12,345 (บาท)"},
		},
		{
			name:  "FixedIsNumeric",
			mode:  pricing.Fixed{Price: 100, StockLimit: 10},
			total: 300,
			want:  pricing.Display{Price: "100", Stock: "10", Total: "300"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Describe(tt.mode, decimal.NewFromInt(tt.total))
			assert.Equal(t, tt.want, got)
		})
	}
}
