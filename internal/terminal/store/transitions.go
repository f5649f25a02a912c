package store

import (
	"math/big"

	"dex-terminal/internal/terminal/model"

	"github.com/ethereum/go-ethereum/common"
)

func (s *Store) AccountLoaded(account common.Address) {
	s.apply("ACCOUNT_LOADED", func(st *State) {
		st.Account = account
	})
}

// ---- 历史事件回补，三个流各自独立完成 ----
// 订阅先于回补建立，回补解析期间到达的实时事件可能已经入集，
// 按 id 并入而不是整体覆盖，否则这部分事件会被回补结果吞掉

func (s *Store) CancelledOrdersLoaded(orders []model.Order) {
	s.apply("CANCELLED_ORDERS_LOADED", func(st *State) {
		st.CancelledOrders = mergeOrders(orders, st.CancelledOrders)
		st.CancelledLoaded = true
	})
}

func (s *Store) FilledOrdersLoaded(trades []model.Trade) {
	s.apply("FILLED_ORDERS_LOADED", func(st *State) {
		st.FilledOrders = mergeTrades(trades, st.FilledOrders)
		st.FilledLoaded = true
	})
}

func (s *Store) AllOrdersLoaded(orders []model.Order) {
	s.apply("ALL_ORDERS_LOADED", func(st *State) {
		st.AllOrders = mergeOrders(orders, st.AllOrders)
		st.AllLoaded = true
	})
}

// mergeOrders 历史记录按链序在前，之后补上先到的实时记录
func mergeOrders(loaded, live []model.Order) []model.Order {
	if len(live) == 0 {
		return loaded
	}

	seen := make(map[uint64]struct{}, len(loaded))
	for _, o := range loaded {
		seen[o.ID] = struct{}{}
	}

	out := loaded
	for _, o := range live {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		out = append(out, o)
	}
	return out
}

func mergeTrades(loaded, live []model.Trade) []model.Trade {
	if len(live) == 0 {
		return loaded
	}

	seen := make(map[uint64]struct{}, len(loaded))
	for _, t := range loaded {
		seen[t.ID] = struct{}{}
	}

	out := loaded
	for _, t := range live {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ---- 交易 in-flight 标记，提交被接受时置位 ----

func (s *Store) OrderCancelling() {
	s.apply("ORDER_CANCELLING", func(st *State) {
		st.OrderCancelling = true
	})
}

func (s *Store) OrderFilling() {
	s.apply("ORDER_FILLING", func(st *State) {
		st.OrderFilling = true
	})
}

func (s *Store) BuyOrderMaking() {
	s.apply("BUY_ORDER_MAKING", func(st *State) {
		st.BuyOrderMaking = true
	})
}

func (s *Store) SellOrderMaking() {
	s.apply("SELL_ORDER_MAKING", func(st *State) {
		st.SellOrderMaking = true
	})
}

// ---- 实时事件，对应 in-flight 标记在这里清除 ----

func (s *Store) OrderCancelled(order model.Order) {
	s.apply("ORDER_CANCELLED", func(st *State) {
		st.CancelledOrders = append(st.CancelledOrders, order)
		st.OrderCancelling = false
	})
}

func (s *Store) OrderFilled(trade model.Trade) {
	s.apply("ORDER_FILLED", func(st *State) {
		// 回补和订阅可能观测到同一笔成交，按 id 去重
		for _, t := range st.FilledOrders {
			if t.ID == trade.ID {
				st.OrderFilling = false
				return
			}
		}
		st.FilledOrders = append(st.FilledOrders, trade)
		st.OrderFilling = false
	})
}

func (s *Store) OrderMade(order model.Order) {
	s.apply("ORDER_MADE", func(st *State) {
		for _, o := range st.AllOrders {
			if o.ID == order.ID {
				st.BuyOrderMaking = false
				st.SellOrderMaking = false
				return
			}
		}
		st.AllOrders = append(st.AllOrders, order)
		st.BuyOrderMaking = false
		st.SellOrderMaking = false
	})
}

// ---- 余额快照，四项各自独立刷新 ----

func (s *Store) BalancesLoading() {
	s.apply("BALANCES_LOADING", func(st *State) {
		st.BalancesLoading = true
	})
}

func (s *Store) BalancesLoaded() {
	s.apply("BALANCES_LOADED", func(st *State) {
		st.BalancesLoading = false
	})
}

func (s *Store) EtherBalanceLoaded(balance *big.Int) {
	s.apply("ETHER_BALANCE_LOADED", func(st *State) {
		st.EtherBalance = balance
	})
}

func (s *Store) TokenBalanceLoaded(balance *big.Int) {
	s.apply("TOKEN_BALANCE_LOADED", func(st *State) {
		st.TokenBalance = balance
	})
}

func (s *Store) ExchangeEtherBalanceLoaded(balance *big.Int) {
	s.apply("EXCHANGE_ETHER_BALANCE_LOADED", func(st *State) {
		st.ExchangeEtherBalance = balance
	})
}

func (s *Store) ExchangeTokenBalanceLoaded(balance *big.Int) {
	s.apply("EXCHANGE_TOKEN_BALANCE_LOADED", func(st *State) {
		st.ExchangeTokenBalance = balance
	})
}
