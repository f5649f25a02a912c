package selector

import (
	"sort"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"
	"dex-terminal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

// 纯函数视图层：每个 selector 只读状态快照，重新计算派生视图

// OrderBookLoaded 三个事件流都回补完成后挂单簿才算就绪
func OrderBookLoaded(st store.State) bool {
	return st.CancelledLoaded && st.FilledLoaded && st.AllLoaded
}

func FilledOrdersLoaded(st store.State) bool {
	return st.FilledLoaded
}

// OpenOrders 当前未结订单 = 全部订单 − 已成交 − 已取消，按 id 集合相减
func OpenOrders(st store.State) []model.Order {
	settled := make(map[uint64]struct{}, len(st.FilledOrders)+len(st.CancelledOrders))
	for _, t := range st.FilledOrders {
		settled[t.ID] = struct{}{}
	}
	for _, o := range st.CancelledOrders {
		settled[o.ID] = struct{}{}
	}

	open := make([]model.Order, 0, len(st.AllOrders))
	for _, o := range st.AllOrders {
		if _, ok := settled[o.ID]; ok {
			continue
		}
		open = append(open, o)
	}
	return open
}

// OrderBookView 未结订单装饰后按买卖方向分组，各侧按价格降序展示
func OrderBookView(st store.State) model.OrderBook {
	var book model.OrderBook
	for _, o := range OpenOrders(st) {
		d := decorateBookOrder(o)
		if d.OrderType == model.OrderTypeBuy {
			book.BuyOrders = append(book.BuyOrders, d)
		} else {
			book.SellOrders = append(book.SellOrders, d)
		}
	}

	byPriceDesc := func(orders []model.BookOrder) {
		sort.SliceStable(orders, func(i, j int) bool {
			return orders[i].TokenPrice.Cmp(orders[j].TokenPrice) > 0
		})
	}
	byPriceDesc(book.BuyOrders)
	byPriceDesc(book.SellOrders)

	return book
}

// TradeTape 成交带：升序装饰（涨跌类依赖顺序），再按时间降序展示
func TradeTape(st store.State) []model.TapeTrade {
	decorated := decorateTapeTrades(sortTradesAscending(st.FilledOrders))

	sort.SliceStable(decorated, func(i, j int) bool {
		return decorated[i].Timestamp > decorated[j].Timestamp
	})
	return decorated
}

// MyOpenOrders 账户自己的未结挂单，按时间降序
func MyOpenOrders(st store.State, account common.Address) []model.AccountOrder {
	out := make([]model.AccountOrder, 0)
	for _, o := range OpenOrders(st) {
		if o.User != account {
			continue
		}
		out = append(out, decorateAccountOrder(o, account))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// MyFilledOrders 账户参与的成交（挂单方或吃单方），升序装饰后按该顺序展示
func MyFilledOrders(st store.State, account common.Address) []model.AccountOrder {
	out := make([]model.AccountOrder, 0)
	for _, t := range sortTradesAscending(st.FilledOrders) {
		if t.User != account && t.UserFill != account {
			continue
		}
		out = append(out, decorateAccountOrder(t.Order, account))
	}
	return out
}

// BalancesView 四项余额的展示快照
func BalancesView(st store.State) model.Balances {
	return model.Balances{
		EtherBalance:         utils.FormatBalance(st.EtherBalance),
		TokenBalance:         utils.FormatBalance(st.TokenBalance),
		ExchangeEtherBalance: utils.FormatBalance(st.ExchangeEtherBalance),
		ExchangeTokenBalance: utils.FormatBalance(st.ExchangeTokenBalance),
		Loading:              st.BalancesLoading,
	}
}

// sortTradesAscending 时间升序，时间相同保持到达顺序
func sortTradesAscending(trades []model.Trade) []model.Trade {
	sorted := make([]model.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}
