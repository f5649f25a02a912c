package backfill

import (
	"context"
	"time"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/store"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// Source 历史事件流来源，由 gateway.Exchange 实现
type Source interface {
	FilterCancels(ctx context.Context) ([]model.Order, error)
	FilterTrades(ctx context.Context) ([]model.Trade, error)
	FilterOrders(ctx context.Context) ([]model.Order, error)
}

// Backfill 启动时回补三个历史事件流
// 三个流相互独立：各自完成就各自发布，没有汇合点，慢的流不阻塞快的流
type Backfill struct {
	tl      *zap.Logger
	src     Source
	st      *store.Store
	timeout time.Duration
}

func New(tl *zap.Logger, src Source, st *store.Store, timeout time.Duration) *Backfill {
	return &Backfill{
		tl:      tl,
		src:     src,
		st:      st,
		timeout: timeout,
	}
}

// Run 并发拉取三个流，全部结束后返回
// 某个流失败只记日志和指标，对应的 loaded 标记保持 false
func (b *Backfill) Run(ctx context.Context) {
	var wg conc.WaitGroup

	wg.Go(func() {
		b.fetch(ctx, "cancel", func(ctx context.Context) (int, error) {
			orders, err := b.src.FilterCancels(ctx)
			if err != nil {
				return 0, err
			}
			b.st.CancelledOrdersLoaded(orders)
			return len(orders), nil
		})
	})

	wg.Go(func() {
		b.fetch(ctx, "trade", func(ctx context.Context) (int, error) {
			trades, err := b.src.FilterTrades(ctx)
			if err != nil {
				return 0, err
			}
			b.st.FilledOrdersLoaded(trades)
			return len(trades), nil
		})
	})

	wg.Go(func() {
		b.fetch(ctx, "order", func(ctx context.Context) (int, error) {
			orders, err := b.src.FilterOrders(ctx)
			if err != nil {
				return 0, err
			}
			b.st.AllOrdersLoaded(orders)
			return len(orders), nil
		})
	})

	wg.Wait()
	b.tl.Info("backfill finished")
}

func (b *Backfill) fetch(ctx context.Context, stream string, fn func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	n, err := fn(ctx)
	monitor.BackfillDuration.WithLabelValues(stream).Observe(time.Since(start).Seconds())

	if err != nil {
		monitor.BackfillErrors.WithLabelValues(stream).Inc()
		b.tl.Error("❌ backfill stream failed", zap.String("stream", stream), zap.Error(err))
		return
	}

	monitor.BackfillRecords.WithLabelValues(stream).Set(float64(n))
	b.tl.Info("backfill stream loaded", zap.String("stream", stream), zap.Int("records", n))
}
