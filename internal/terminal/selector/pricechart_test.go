package selector

import (
	"testing"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceChartHourlyBuckets(t *testing.T) {
	hour := int64(3600)
	// 两笔落在第一个小时，两笔落在第二个小时
	st := store.State{
		FilledOrders: []model.Trade{
			newTrade(1, hour*10+60, 10, 10, true),  // 1.0
			newTrade(2, hour*10+120, 15, 10, true), // 1.5
			newTrade(3, hour*11+60, 8, 10, true),   // 0.8
			newTrade(4, hour*11+120, 12, 10, true), // 1.2
		},
	}

	chart := PriceChartView(st)
	require.Len(t, chart.Series, 2)

	first := chart.Series[0]
	assert.Equal(t, hour*10, first.Start)
	assert.True(t, first.Open.Equal(decimal.NewFromInt(1)))
	assert.True(t, first.High.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, first.Low.Equal(decimal.NewFromInt(1)))
	assert.True(t, first.Close.Equal(decimal.RequireFromString("1.5")))

	second := chart.Series[1]
	assert.Equal(t, hour*11, second.Start)
	assert.True(t, second.Open.Equal(decimal.RequireFromString("0.8")))
	assert.True(t, second.High.Equal(decimal.RequireFromString("1.2")))
	assert.True(t, second.Low.Equal(decimal.RequireFromString("0.8")))
	assert.True(t, second.Close.Equal(decimal.RequireFromString("1.2")))

	// 方向比较全局最近两笔：1.2 >= 0.8
	assert.True(t, chart.LastPrice.Equal(decimal.RequireFromString("1.2")))
	assert.Equal(t, "+", chart.LastPriceChange)
}

func TestPriceChartLastPriceChangeDown(t *testing.T) {
	st := store.State{
		FilledOrders: []model.Trade{
			newTrade(1, 100, 12, 10, true),
			newTrade(2, 200, 9, 10, true),
		},
	}

	chart := PriceChartView(st)
	assert.Equal(t, "-", chart.LastPriceChange)
	assert.True(t, chart.LastPrice.Equal(decimal.RequireFromString("0.9")))
}

func TestPriceChartEmpty(t *testing.T) {
	chart := PriceChartView(store.State{})
	assert.Empty(t, chart.Series)
	assert.True(t, chart.LastPrice.IsZero())
	assert.Empty(t, chart.LastPriceChange)
}
