package subscriber

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStream struct {
	cancels   chan model.Order
	trades    chan model.Trade
	orders    chan model.Order
	deposits  chan model.TransferEvent
	withdraws chan model.TransferEvent
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		cancels:   make(chan model.Order, 8),
		trades:    make(chan model.Trade, 8),
		orders:    make(chan model.Order, 8),
		deposits:  make(chan model.TransferEvent, 8),
		withdraws: make(chan model.TransferEvent, 8),
	}
}

func (f *fakeStream) WatchCancels(ctx context.Context) (<-chan model.Order, error) {
	return f.cancels, nil
}
func (f *fakeStream) WatchTrades(ctx context.Context) (<-chan model.Trade, error) {
	return f.trades, nil
}
func (f *fakeStream) WatchOrders(ctx context.Context) (<-chan model.Order, error) {
	return f.orders, nil
}
func (f *fakeStream) WatchDeposits(ctx context.Context) (<-chan model.TransferEvent, error) {
	return f.deposits, nil
}
func (f *fakeStream) WatchWithdraws(ctx context.Context) (<-chan model.TransferEvent, error) {
	return f.withdraws, nil
}

type fakeRefresher struct {
	calls atomic.Int64
}

func (f *fakeRefresher) Refresh(ctx context.Context) {
	f.calls.Add(1)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestCancelEventAppendsAndClearsFlag(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := newFakeStream()
	st := store.New(zap.NewNop())
	st.CancelledOrdersLoaded(nil)
	st.OrderCancelling()

	require.NoError(t, New(zap.NewNop(), stream, st, &fakeRefresher{}).Run(ctx))

	stream.cancels <- model.Order{ID: 5}

	waitFor(t, func() bool {
		state, _ := st.Snapshot()
		return len(state.CancelledOrders) == 1 && !state.OrderCancelling
	})
}

func TestTradeEventRefreshesBalancesThenAppends(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := newFakeStream()
	st := store.New(zap.NewNop())
	st.FilledOrdersLoaded(nil)
	st.OrderFilling()
	refresher := &fakeRefresher{}

	require.NoError(t, New(zap.NewNop(), stream, st, refresher).Run(ctx))

	stream.trades <- model.Trade{Order: model.Order{ID: 9}}

	waitFor(t, func() bool {
		state, _ := st.Snapshot()
		return len(state.FilledOrders) == 1 && !state.OrderFilling
	})
	assert.Equal(t, int64(1), refresher.calls.Load())
}

func TestOrderEventClearsMakingFlags(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := newFakeStream()
	st := store.New(zap.NewNop())
	st.AllOrdersLoaded(nil)
	st.BuyOrderMaking()

	require.NoError(t, New(zap.NewNop(), stream, st, &fakeRefresher{}).Run(ctx))

	stream.orders <- model.Order{ID: 3}

	waitFor(t, func() bool {
		state, _ := st.Snapshot()
		return len(state.AllOrders) == 1 && !state.BuyOrderMaking
	})
}

func TestDepositAndWithdrawOnlyRefreshBalances(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := newFakeStream()
	st := store.New(zap.NewNop())
	st.AllOrdersLoaded(nil)
	refresher := &fakeRefresher{}

	require.NoError(t, New(zap.NewNop(), stream, st, refresher).Run(ctx))

	stream.deposits <- model.TransferEvent{}
	stream.withdraws <- model.TransferEvent{}

	waitFor(t, func() bool {
		return refresher.calls.Load() == 2
	})

	state, _ := st.Snapshot()
	assert.Empty(t, state.AllOrders)
}
