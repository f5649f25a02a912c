package subscriber

import (
	"context"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/store"

	"go.uber.org/zap"
)

// Stream 实时事件来源，由 gateway.Exchange 实现
type Stream interface {
	WatchCancels(ctx context.Context) (<-chan model.Order, error)
	WatchTrades(ctx context.Context) (<-chan model.Trade, error)
	WatchOrders(ctx context.Context) (<-chan model.Order, error)
	WatchDeposits(ctx context.Context) (<-chan model.TransferEvent, error)
	WatchWithdraws(ctx context.Context) (<-chan model.TransferEvent, error)
}

// Refresher 余额刷新，由 service.Balances 实现
type Refresher interface {
	Refresh(ctx context.Context)
}

// Subscriber 每种合约事件一个长驻监听 goroutine，互相独立
// 事件在单个类型内按发出顺序送达，跨类型不保证顺序
type Subscriber struct {
	tl       *zap.Logger
	stream   Stream
	st       *store.Store
	balances Refresher
}

func New(tl *zap.Logger, stream Stream, st *store.Store, balances Refresher) *Subscriber {
	return &Subscriber{
		tl:       tl,
		stream:   stream,
		st:       st,
		balances: balances,
	}
}

// Run 建立全部订阅后返回，监听 goroutine 随 ctx 存亡
func (s *Subscriber) Run(ctx context.Context) error {
	cancels, err := s.stream.WatchCancels(ctx)
	if err != nil {
		return err
	}
	trades, err := s.stream.WatchTrades(ctx)
	if err != nil {
		return err
	}
	orders, err := s.stream.WatchOrders(ctx)
	if err != nil {
		return err
	}
	deposits, err := s.stream.WatchDeposits(ctx)
	if err != nil {
		return err
	}
	withdraws, err := s.stream.WatchWithdraws(ctx)
	if err != nil {
		return err
	}

	go s.runCancels(ctx, cancels)
	go s.runTrades(ctx, trades)
	go s.runOrders(ctx, orders)
	go s.runTransfers(ctx, "Deposit", deposits)
	go s.runTransfers(ctx, "Withdraw", withdraws)

	s.tl.Info("event subscriptions established")
	return nil
}

func (s *Subscriber) runCancels(ctx context.Context, events <-chan model.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-events:
			if !ok {
				s.tl.Warn("❌ Cancel stream closed")
				return
			}
			monitor.EventsReceived.WithLabelValues("Cancel").Inc()
			s.st.OrderCancelled(o)
		}
	}
}

func (s *Subscriber) runTrades(ctx context.Context, events <-chan model.Trade) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-events:
			if !ok {
				s.tl.Warn("❌ Trade stream closed")
				return
			}
			monitor.EventsReceived.WithLabelValues("Trade").Inc()

			// 先刷新余额再入账成交，余额竞争时以最后完成的刷新为准
			s.balances.Refresh(ctx)
			s.st.OrderFilled(t)
		}
	}
}

func (s *Subscriber) runOrders(ctx context.Context, events <-chan model.Order) {
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-events:
			if !ok {
				s.tl.Warn("❌ Order stream closed")
				return
			}
			monitor.EventsReceived.WithLabelValues("Order").Inc()
			s.st.OrderMade(o)
		}
	}
}

func (s *Subscriber) runTransfers(ctx context.Context, event string, events <-chan model.TransferEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				s.tl.Warn("❌ stream closed", zap.String("event", event))
				return
			}
			monitor.EventsReceived.WithLabelValues(event).Inc()

			// 入金/出金只动余额，不动订单集合
			s.balances.Refresh(ctx)
		}
	}
}
