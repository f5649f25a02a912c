package api

import (
	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/selector"
	"dex-terminal/internal/terminal/store"
)

// View 推送给客户端的完整派生视图，带状态版本号
type View struct {
	Version uint64 `json:"version"`
	Account string `json:"account"`

	OrderBookLoaded bool                 `json:"orderBookLoaded"`
	OrderBook       model.OrderBook      `json:"orderBook"`
	Trades          []model.TapeTrade    `json:"trades"`
	MyOpenOrders    []model.AccountOrder `json:"myOpenOrders"`
	MyFilledOrders  []model.AccountOrder `json:"myFilledOrders"`
	PriceChart      model.PriceChart     `json:"priceChart"`
	Balances        model.Balances       `json:"balances"`

	OrderCancelling bool `json:"orderCancelling"`
	OrderFilling    bool `json:"orderFilling"`
	BuyOrderMaking  bool `json:"buyOrderMaking"`
	SellOrderMaking bool `json:"sellOrderMaking"`
}

func buildView(st store.State, version uint64) View {
	return View{
		Version:         version,
		Account:         st.Account.Hex(),
		OrderBookLoaded: selector.OrderBookLoaded(st),
		OrderBook:       selector.OrderBookView(st),
		Trades:          selector.TradeTape(st),
		MyOpenOrders:    selector.MyOpenOrders(st, st.Account),
		MyFilledOrders:  selector.MyFilledOrders(st, st.Account),
		PriceChart:      selector.PriceChartView(st),
		Balances:        selector.BalancesView(st),
		OrderCancelling: st.OrderCancelling,
		OrderFilling:    st.OrderFilling,
		BuyOrderMaking:  st.BuyOrderMaking,
		SellOrderMaking: st.SellOrderMaking,
	}
}
