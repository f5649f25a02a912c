package model

import (
	"github.com/shopspring/decimal"
)

// 颜色样式沿用 bootstrap 的语义类名
const (
	GREEN = "success"
	RED   = "danger"
)

const (
	OrderTypeBuy  = "buy"
	OrderTypeSell = "sell"
)

// BookOrder 挂单簿中的装饰后订单
type BookOrder struct {
	Order
	EtherAmount     decimal.Decimal `json:"etherAmount"`
	TokenAmount     decimal.Decimal `json:"tokenAmount"`
	TokenPrice      decimal.Decimal `json:"tokenPrice"`
	OrderType       string          `json:"orderType"`
	OrderTypeClass  string          `json:"orderTypeClass"`
	OrderFillAction string          `json:"orderFillAction"`
	FormattedTime   string          `json:"formattedTimestamp"`
}

// TapeTrade 成交带中的装饰后成交记录
// TokenPriceClass 依赖时间升序中紧邻的前一笔成交
type TapeTrade struct {
	Trade
	EtherAmount     decimal.Decimal `json:"etherAmount"`
	TokenAmount     decimal.Decimal `json:"tokenAmount"`
	TokenPrice      decimal.Decimal `json:"tokenPrice"`
	TokenPriceClass string          `json:"tokenPriceClass"`
	FormattedTime   string          `json:"formattedTimestamp"`
}

// AccountOrder 以某个账户视角装饰后的订单/成交
// 账户是吃单方时买卖方向取反，OrderSign 表示对该账户代币持仓的净影响
type AccountOrder struct {
	Order
	EtherAmount    decimal.Decimal `json:"etherAmount"`
	TokenAmount    decimal.Decimal `json:"tokenAmount"`
	TokenPrice     decimal.Decimal `json:"tokenPrice"`
	OrderType      string          `json:"orderType"`
	OrderTypeClass string          `json:"orderTypeClass"`
	OrderSign      string          `json:"orderSign"`
	FormattedTime  string          `json:"formattedTimestamp"`
}

// OrderBook 按买卖方向分组的挂单簿
type OrderBook struct {
	BuyOrders  []BookOrder `json:"buyOrders"`
	SellOrders []BookOrder `json:"sellOrders"`
}

// Candle 小时级 OHLC K线
type Candle struct {
	Start int64           `json:"start"` // 所在小时的起始秒级时间戳
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// PriceChart K线序列及最新成交价与涨跌方向
type PriceChart struct {
	Series          []Candle        `json:"series"`
	LastPrice       decimal.Decimal `json:"lastPrice"`
	LastPriceChange string          `json:"lastPriceChange"` // "+" / "-"
}

// Balances 四项余额的展示快照
type Balances struct {
	EtherBalance         decimal.Decimal `json:"etherBalance"`
	TokenBalance         decimal.Decimal `json:"tokenBalance"`
	ExchangeEtherBalance decimal.Decimal `json:"exchangeEtherBalance"`
	ExchangeTokenBalance decimal.Decimal `json:"exchangeTokenBalance"`
	Loading              bool            `json:"loading"`
}
