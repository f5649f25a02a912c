package store

import (
	"math/big"
	"sync"

	"dex-terminal/internal/terminal/model"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// State 会话内唯一的共享状态
// 订单三个集合只追加不修改，余额为最近一次快照，旧值直接覆盖
type State struct {
	Account common.Address

	EtherBalance         *big.Int
	TokenBalance         *big.Int
	ExchangeEtherBalance *big.Int
	ExchangeTokenBalance *big.Int
	BalancesLoading      bool

	CancelledOrders []model.Order
	CancelledLoaded bool
	FilledOrders    []model.Trade
	FilledLoaded    bool
	AllOrders       []model.Order
	AllLoaded       bool

	// 交易提交后、对应事件到达前的 in-flight 标记
	OrderCancelling bool
	OrderFilling    bool
	BuyOrderMaking  bool
	SellOrderMaking bool
}

// Store 状态容器，所有变更都走具名转移方法，每次转移是一次同步的整体替换
type Store struct {
	mu      sync.RWMutex
	tl      *zap.Logger
	state   State
	version uint64
	subs    []chan struct{}
}

func New(tl *zap.Logger) *Store {
	return &Store{tl: tl}
}

// Snapshot 返回当前状态的副本及版本号
// 订单切片共享底层数组，但记录观测后不可变，追加不影响已发出的快照
func (s *Store) Snapshot() (State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.version
}

// Subscribe 注册状态变更通知，通道只做信号不携带数据
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// apply 在持锁状态下执行一次转移并通知订阅方
func (s *Store) apply(name string, fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.version++
	subs := s.subs
	s.mu.Unlock()

	s.tl.Debug("state transition", zap.String("action", name))

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default: // 订阅方尚未消费上一次信号，跳过
		}
	}
}
