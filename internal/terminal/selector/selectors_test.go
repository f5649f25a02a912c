package selector

import (
	"math/big"
	"testing"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOrdersSetSubtraction(t *testing.T) {
	st := store.State{
		AllOrders: []model.Order{
			newOrder(1, 100, 1, 10, true),
			newOrder(2, 200, 1, 10, true),
			newOrder(3, 300, 1, 10, false),
			newOrder(4, 400, 1, 10, false),
		},
		FilledOrders:    []model.Trade{newTrade(2, 200, 1, 10, true)},
		CancelledOrders: []model.Order{newOrder(3, 300, 1, 10, false)},
	}

	open := OpenOrders(st)
	require.Len(t, open, 2)

	ids := map[uint64]struct{}{}
	for _, o := range open {
		ids[o.ID] = struct{}{}
	}
	assert.Contains(t, ids, uint64(1))
	assert.Contains(t, ids, uint64(4))
	assert.NotContains(t, ids, uint64(2))
	assert.NotContains(t, ids, uint64(3))
}

func TestOrderBookLoaded(t *testing.T) {
	st := store.State{CancelledLoaded: true, FilledLoaded: true}
	assert.False(t, OrderBookLoaded(st))

	st.AllLoaded = true
	assert.True(t, OrderBookLoaded(st))
}

func TestOrderBookViewSidesAndSort(t *testing.T) {
	st := store.State{
		AllOrders: []model.Order{
			newOrder(1, 100, 1, 100, true),  // buy @ 0.01
			newOrder(2, 200, 3, 100, true),  // buy @ 0.03
			newOrder(3, 300, 2, 100, true),  // buy @ 0.02
			newOrder(4, 400, 5, 100, false), // sell @ 0.05
			newOrder(5, 500, 4, 100, false), // sell @ 0.04
		},
	}

	book := OrderBookView(st)
	require.Len(t, book.BuyOrders, 3)
	require.Len(t, book.SellOrders, 2)

	// 各侧价格降序
	assert.Equal(t, uint64(2), book.BuyOrders[0].ID)
	assert.Equal(t, uint64(3), book.BuyOrders[1].ID)
	assert.Equal(t, uint64(1), book.BuyOrders[2].ID)
	assert.Equal(t, uint64(4), book.SellOrders[0].ID)
	assert.Equal(t, uint64(5), book.SellOrders[1].ID)
}

func TestTradeTapeDisplayOrder(t *testing.T) {
	// 乱序进入，展示按时间降序，涨跌类按升序序列计算
	st := store.State{
		FilledOrders: []model.Trade{
			newTrade(2, 200, 12, 10, true), // 1.2
			newTrade(1, 100, 10, 10, true), // 1.0
			newTrade(3, 300, 9, 10, true),  // 0.9
		},
	}

	tape := TradeTape(st)
	require.Len(t, tape, 3)
	assert.Equal(t, uint64(3), tape[0].ID)
	assert.Equal(t, uint64(2), tape[1].ID)
	assert.Equal(t, uint64(1), tape[2].ID)

	// 最新一笔 0.9 < 1.2，应为 RED
	assert.Equal(t, model.RED, tape[0].TokenPriceClass)
	assert.Equal(t, model.GREEN, tape[1].TokenPriceClass)
	assert.Equal(t, model.GREEN, tape[2].TokenPriceClass)
}

func TestMyOpenOrders(t *testing.T) {
	other := taker
	mine := newOrder(1, 100, 1, 10, true)
	theirs := newOrder(2, 200, 1, 10, true)
	theirs.User = other

	st := store.State{AllOrders: []model.Order{mine, theirs}}

	out := MyOpenOrders(st, maker)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].ID)
	assert.Equal(t, model.OrderTypeBuy, out[0].OrderType)
}

func TestMyFilledOrdersIncludesFills(t *testing.T) {
	asMaker := newTrade(1, 100, 2, 100, false) // 我挂的卖单
	asTaker := newTrade(2, 200, 2, 100, false) // 我吃了别人的卖单
	asTaker.User = taker
	asTaker.UserFill = maker
	unrelated := newTrade(3, 300, 2, 100, true)
	unrelated.User = taker
	unrelated.UserFill = taker

	st := store.State{FilledOrders: []model.Trade{asTaker, asMaker, unrelated}}

	out := MyFilledOrders(st, maker)
	require.Len(t, out, 2)

	// 升序装饰后保持该顺序展示
	assert.Equal(t, uint64(1), out[0].ID)
	assert.Equal(t, model.OrderTypeSell, out[0].OrderType)
	assert.Equal(t, "-", out[0].OrderSign)

	assert.Equal(t, uint64(2), out[1].ID)
	assert.Equal(t, model.OrderTypeBuy, out[1].OrderType)
	assert.Equal(t, "+", out[1].OrderSign)
}

func TestBalancesView(t *testing.T) {
	st := store.State{
		EtherBalance:         new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)), // 1.5
		ExchangeTokenBalance: new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		BalancesLoading:      true,
	}

	v := BalancesView(st)
	assert.True(t, v.EtherBalance.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, v.ExchangeTokenBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, v.TokenBalance.IsZero())
	assert.True(t, v.Loading)
}
