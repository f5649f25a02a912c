package selector

import (
	"time"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// moment 的 'h:mm:ss a M/D'
const timeLayout = "3:04:05 pm 1/2"

// splitAmounts 按哪一侧是原生币，把 get/give 金额归到 ether / token
func splitAmounts(o model.Order) (etherAmount, tokenAmount decimal.Decimal) {
	if o.TokenGive == model.EtherAddress {
		etherAmount, _ = utils.ToDisplayUnits(o.AmountGive)
		tokenAmount, _ = utils.ToDisplayUnits(o.AmountGet)
	} else {
		etherAmount, _ = utils.ToDisplayUnits(o.AmountGet)
		tokenAmount, _ = utils.ToDisplayUnits(o.AmountGive)
	}
	return etherAmount, tokenAmount
}

// tokenPrice 统一为"每单位代币的原生币数量"，保留 5 位小数
// 代币数量为 0 的畸形订单不 panic，价格归零，调用方按不可用订单处理
func tokenPrice(etherAmount, tokenAmount decimal.Decimal) decimal.Decimal {
	if tokenAmount.IsZero() {
		return decimal.Zero
	}
	return etherAmount.Div(tokenAmount).Round(5)
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timeLayout)
}

// orderType 买单 iff 付出的一侧是原生币
func orderType(o model.Order) string {
	if o.TokenGive == model.EtherAddress {
		return model.OrderTypeBuy
	}
	return model.OrderTypeSell
}

func decorateBookOrder(o model.Order) model.BookOrder {
	etherAmount, tokenAmount := splitAmounts(o)

	typ := orderType(o)
	typeClass := model.RED
	fillAction := model.OrderTypeBuy // 对手方吃掉卖单是买入
	if typ == model.OrderTypeBuy {
		typeClass = model.GREEN
		fillAction = model.OrderTypeSell
	}

	return model.BookOrder{
		Order:           o,
		EtherAmount:     etherAmount,
		TokenAmount:     tokenAmount,
		TokenPrice:      tokenPrice(etherAmount, tokenAmount),
		OrderType:       typ,
		OrderTypeClass:  typeClass,
		OrderFillAction: fillAction,
		FormattedTime:   formatTime(o.Timestamp),
	}
}

// decorateTapeTrades 依时间升序逐笔装饰
// 涨跌类是严格的顺序折叠：与紧邻的前一笔装饰后成交比价，首笔为 GREEN
func decorateTapeTrades(trades []model.Trade) []model.TapeTrade {
	out := make([]model.TapeTrade, 0, len(trades))
	var prev *model.TapeTrade

	for _, t := range trades {
		etherAmount, tokenAmount := splitAmounts(t.Order)
		d := model.TapeTrade{
			Trade:         t,
			EtherAmount:   etherAmount,
			TokenAmount:   tokenAmount,
			TokenPrice:    tokenPrice(etherAmount, tokenAmount),
			FormattedTime: formatTime(t.Timestamp),
		}

		if prev == nil || d.TokenPrice.Cmp(prev.TokenPrice) >= 0 {
			d.TokenPriceClass = model.GREEN
		} else {
			d.TokenPriceClass = model.RED
		}

		out = append(out, d)
		prev = &out[len(out)-1]
	}
	return out
}

// decorateAccountOrder 以 account 的视角装饰
// account 是吃单方时买卖标签取反：挂单方卖出对吃单方是买入
func decorateAccountOrder(o model.Order, account common.Address) model.AccountOrder {
	etherAmount, tokenAmount := splitAmounts(o)

	typ := orderType(o)
	if o.User != account {
		if typ == model.OrderTypeBuy {
			typ = model.OrderTypeSell
		} else {
			typ = model.OrderTypeBuy
		}
	}

	typeClass := model.RED
	sign := "-"
	if typ == model.OrderTypeBuy {
		typeClass = model.GREEN
		sign = "+"
	}

	return model.AccountOrder{
		Order:          o,
		EtherAmount:    etherAmount,
		TokenAmount:    tokenAmount,
		TokenPrice:     tokenPrice(etherAmount, tokenAmount),
		OrderType:      typ,
		OrderTypeClass: typeClass,
		OrderSign:      sign,
		FormattedTime:  formatTime(o.Timestamp),
	}
}
