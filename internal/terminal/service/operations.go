package service

import (
	"context"
	"fmt"
	"math/big"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/store"
	"dex-terminal/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExchangeWriter 交易所合约写入口，由 gateway.Exchange 实现
type ExchangeWriter interface {
	Address() common.Address
	DepositEther(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	WithdrawEther(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error)
	DepositToken(ctx context.Context, opts *bind.TransactOpts, token common.Address, amount *big.Int) (*types.Transaction, error)
	WithdrawToken(ctx context.Context, opts *bind.TransactOpts, token common.Address, amount *big.Int) (*types.Transaction, error)
	MakeOrder(ctx context.Context, opts *bind.TransactOpts, tokenGet common.Address, amountGet *big.Int, tokenGive common.Address, amountGive *big.Int) (*types.Transaction, error)
	CancelOrder(ctx context.Context, opts *bind.TransactOpts, id uint64) (*types.Transaction, error)
	FillOrder(ctx context.Context, opts *bind.TransactOpts, id uint64) (*types.Transaction, error)
}

// TokenWriter 代币合约写入口，由 gateway.Token 实现
type TokenWriter interface {
	Address() common.Address
	Approve(ctx context.Context, opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error)
}

// Signer 交易签名配置来源，由 wallet.Wallet 实现
type Signer interface {
	Address() common.Address
	TransactOpts() (*bind.TransactOpts, error)
}

// Operations 面向用户的交易发起服务
// 提交被节点接受即置 in-flight 标记，等对应的合约事件来清除
type Operations struct {
	tl       *zap.Logger
	exchange ExchangeWriter
	token    TokenWriter
	signer   Signer
	st       *store.Store
}

func NewOperations(tl *zap.Logger, exchange ExchangeWriter, token TokenWriter, signer Signer, st *store.Store) *Operations {
	return &Operations{
		tl:       tl,
		exchange: exchange,
		token:    token,
		signer:   signer,
		st:       st,
	}
}

// DepositEther 把原生币存入交易所
func (o *Operations) DepositEther(ctx context.Context, amount decimal.Decimal) error {
	return o.submit(ctx, "deposit_ether", o.st.BalancesLoading, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.DepositEther(ctx, opts, utils.ToBaseUnits(amount))
	})
}

// WithdrawEther 从交易所取出原生币
func (o *Operations) WithdrawEther(ctx context.Context, amount decimal.Decimal) error {
	return o.submit(ctx, "withdraw_ether", o.st.BalancesLoading, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.WithdrawEther(ctx, opts, utils.ToBaseUnits(amount))
	})
}

// DepositToken 先授权再存入，两笔交易顺序提交，授权失败直接放弃存入
func (o *Operations) DepositToken(ctx context.Context, amount decimal.Decimal) error {
	wei := utils.ToBaseUnits(amount)

	opts, err := o.signer.TransactOpts()
	if err != nil {
		monitor.TxErrors.WithLabelValues("deposit_token").Inc()
		return err
	}
	if _, err := o.token.Approve(ctx, opts, o.exchange.Address(), wei); err != nil {
		monitor.TxErrors.WithLabelValues("deposit_token").Inc()
		o.tl.Error("❌ approve before deposit failed", zap.Error(err))
		return fmt.Errorf("approve token: %w", err)
	}

	return o.submit(ctx, "deposit_token", o.st.BalancesLoading, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.DepositToken(ctx, opts, o.token.Address(), wei)
	})
}

// WithdrawToken 从交易所取出代币
func (o *Operations) WithdrawToken(ctx context.Context, amount decimal.Decimal) error {
	return o.submit(ctx, "withdraw_token", o.st.BalancesLoading, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.WithdrawToken(ctx, opts, o.token.Address(), utils.ToBaseUnits(amount))
	})
}

// MakeBuyOrder 买入 amount 个代币，付出 amount*price 的原生币
func (o *Operations) MakeBuyOrder(ctx context.Context, amount, price decimal.Decimal) error {
	tokenGet := utils.ToBaseUnits(amount)
	etherGive := utils.ToBaseUnits(amount.Mul(price))

	return o.submit(ctx, "make_buy_order", o.st.BuyOrderMaking, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.MakeOrder(ctx, opts, o.token.Address(), tokenGet, model.EtherAddress, etherGive)
	})
}

// MakeSellOrder 卖出 amount 个代币，收取 amount*price 的原生币
func (o *Operations) MakeSellOrder(ctx context.Context, amount, price decimal.Decimal) error {
	etherGet := utils.ToBaseUnits(amount.Mul(price))
	tokenGive := utils.ToBaseUnits(amount)

	return o.submit(ctx, "make_sell_order", o.st.SellOrderMaking, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.MakeOrder(ctx, opts, model.EtherAddress, etherGet, o.token.Address(), tokenGive)
	})
}

// CancelOrder 撤销自己的挂单
func (o *Operations) CancelOrder(ctx context.Context, id uint64) error {
	return o.submit(ctx, "cancel_order", o.st.OrderCancelling, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.CancelOrder(ctx, opts, id)
	})
}

// FillOrder 吃掉别人的挂单
func (o *Operations) FillOrder(ctx context.Context, id uint64) error {
	return o.submit(ctx, "fill_order", o.st.OrderFilling, func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error) {
		return o.exchange.FillOrder(ctx, opts, id)
	})
}

// submit 签名并提交一笔交易
// in-flight 标记在提交前置位，只由后续合约事件清除，提交失败不回滚标记
func (o *Operations) submit(ctx context.Context, op string, mark func(), fn func(ctx context.Context, opts *bind.TransactOpts) (*types.Transaction, error)) error {
	opts, err := o.signer.TransactOpts()
	if err != nil {
		monitor.TxErrors.WithLabelValues(op).Inc()
		return err
	}

	mark()

	tx, err := fn(ctx, opts)
	if err != nil {
		monitor.TxErrors.WithLabelValues(op).Inc()
		o.tl.Error("❌ submit transaction failed", zap.String("op", op), zap.Error(err))
		return err
	}

	monitor.TxSubmitted.WithLabelValues(op).Inc()
	o.tl.Info("transaction submitted", zap.String("op", op), zap.String("hash", tx.Hash().Hex()))
	return nil
}
