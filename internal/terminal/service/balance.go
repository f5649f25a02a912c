package service

import (
	"context"
	"math/big"
	"time"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// BalanceReader 余额读取入口，由 gateway.Gateway 实现
type BalanceReader interface {
	EtherBalance(ctx context.Context, account common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, account common.Address) (*big.Int, error)
	ExchangeBalance(ctx context.Context, token, account common.Address) (*big.Int, error)
}

// Balances 四项余额快照的刷新服务
// 四项各自独立：单项失败只记日志，其余三项照常更新
type Balances struct {
	tl      *zap.Logger
	reader  BalanceReader
	st      *store.Store
	token   common.Address
	account common.Address
}

func NewBalances(tl *zap.Logger, reader BalanceReader, st *store.Store, token, account common.Address) *Balances {
	return &Balances{
		tl:      tl,
		reader:  reader,
		st:      st,
		token:   token,
		account: account,
	}
}

// Refresh 并发拉取四项余额并逐项发布，全部结束后清除 loading 标记
func (b *Balances) Refresh(ctx context.Context) {
	start := time.Now()
	b.st.BalancesLoading()

	var wg conc.WaitGroup

	wg.Go(func() {
		balance, err := b.reader.EtherBalance(ctx, b.account)
		if err != nil {
			b.tl.Warn("❌ refresh wallet native balance failed", zap.Error(err))
			return
		}
		b.st.EtherBalanceLoaded(balance)
	})

	wg.Go(func() {
		balance, err := b.reader.TokenBalance(ctx, b.account)
		if err != nil {
			b.tl.Warn("❌ refresh wallet token balance failed", zap.Error(err))
			return
		}
		b.st.TokenBalanceLoaded(balance)
	})

	wg.Go(func() {
		balance, err := b.reader.ExchangeBalance(ctx, model.EtherAddress, b.account)
		if err != nil {
			b.tl.Warn("❌ refresh exchange native balance failed", zap.Error(err))
			return
		}
		b.st.ExchangeEtherBalanceLoaded(balance)
	})

	wg.Go(func() {
		balance, err := b.reader.ExchangeBalance(ctx, b.token, b.account)
		if err != nil {
			b.tl.Warn("❌ refresh exchange token balance failed", zap.Error(err))
			return
		}
		b.st.ExchangeTokenBalanceLoaded(balance)
	})

	wg.Wait()
	b.st.BalancesLoaded()
	monitor.BalanceRefreshDuration.Observe(time.Since(start).Seconds())
}
