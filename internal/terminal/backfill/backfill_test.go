package backfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSource struct {
	cancels   []model.Order
	trades    []model.Trade
	orders    []model.Order
	cancelErr error
	tradeErr  error
	orderErr  error
}

func (f *fakeSource) FilterCancels(ctx context.Context) ([]model.Order, error) {
	return f.cancels, f.cancelErr
}

func (f *fakeSource) FilterTrades(ctx context.Context) ([]model.Trade, error) {
	return f.trades, f.tradeErr
}

func (f *fakeSource) FilterOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders, f.orderErr
}

func TestRunLoadsAllStreams(t *testing.T) {
	src := &fakeSource{
		cancels: []model.Order{{ID: 1}},
		trades:  []model.Trade{{Order: model.Order{ID: 2}}},
		orders:  []model.Order{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	st := store.New(zap.NewNop())

	New(zap.NewNop(), src, st, time.Second).Run(context.Background())

	state, _ := st.Snapshot()
	assert.True(t, state.CancelledLoaded)
	assert.True(t, state.FilledLoaded)
	assert.True(t, state.AllLoaded)
	assert.Len(t, state.CancelledOrders, 1)
	assert.Len(t, state.FilledOrders, 1)
	assert.Len(t, state.AllOrders, 3)
}

func TestRunFailedStreamStaysUnloaded(t *testing.T) {
	src := &fakeSource{
		cancels:  []model.Order{{ID: 1}},
		orders:   []model.Order{{ID: 1}},
		tradeErr: errors.New("rpc unavailable"),
	}
	st := store.New(zap.NewNop())

	New(zap.NewNop(), src, st, time.Second).Run(context.Background())

	state, _ := st.Snapshot()
	// 失败的流不置 loaded，其余两个流不受影响
	assert.False(t, state.FilledLoaded)
	assert.True(t, state.CancelledLoaded)
	assert.True(t, state.AllLoaded)
}
