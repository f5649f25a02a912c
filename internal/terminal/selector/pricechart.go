package selector

import (
	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"
)

const hourSeconds = 3600

// PriceChartView 成交按小时分桶聚合成 OHLC K线
// 最新价与涨跌方向比较全局最近两笔成交，与分桶无关
func PriceChartView(st store.State) model.PriceChart {
	decorated := decorateTapeTrades(sortTradesAscending(st.FilledOrders))

	var chart model.PriceChart
	var starts []int64
	buckets := make(map[int64]*model.Candle)

	for _, t := range decorated {
		start := t.Timestamp - t.Timestamp%hourSeconds

		c, ok := buckets[start]
		if !ok {
			c = &model.Candle{
				Start: start,
				Open:  t.TokenPrice,
				High:  t.TokenPrice,
				Low:   t.TokenPrice,
				Close: t.TokenPrice,
			}
			buckets[start] = c
			starts = append(starts, start)
			continue
		}

		if t.TokenPrice.Cmp(c.High) > 0 {
			c.High = t.TokenPrice
		}
		if t.TokenPrice.Cmp(c.Low) < 0 {
			c.Low = t.TokenPrice
		}
		c.Close = t.TokenPrice
	}

	// 成交已升序，首次出现顺序即桶的时间顺序
	chart.Series = make([]model.Candle, 0, len(starts))
	for _, start := range starts {
		chart.Series = append(chart.Series, *buckets[start])
	}

	if n := len(decorated); n > 0 {
		chart.LastPrice = decorated[n-1].TokenPrice
		chart.LastPriceChange = "+"
		if n > 1 && chart.LastPrice.Cmp(decorated[n-2].TokenPrice) < 0 {
			chart.LastPriceChange = "-"
		}
	}

	return chart
}
