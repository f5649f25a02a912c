package gateway

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Gateway 汇总终端需要的链上读写入口
// 所有 RPC 调用共享同一个限流器
type Gateway struct {
	Exchange *Exchange
	Token    *Token

	tl          *zap.Logger
	client      *ethclient.Client
	limiter     *rate.Limiter
	callTimeout time.Duration
}

func New(tl *zap.Logger, client *ethclient.Client, exchangeAddr, tokenAddr common.Address, rateLimit int, callTimeout time.Duration, fromBlock int64) (*Gateway, error) {
	limiter := rate.NewLimiter(rate.Limit(rateLimit), rateLimit)

	exchange, err := NewExchange(tl, client, exchangeAddr, limiter, callTimeout, fromBlock)
	if err != nil {
		return nil, err
	}
	token, err := NewToken(tl, client, tokenAddr, limiter, callTimeout)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		Exchange:    exchange,
		Token:       token,
		tl:          tl,
		client:      client,
		limiter:     limiter,
		callTimeout: callTimeout,
	}, nil
}

// EnsureDeployed 两个合约任一缺失都视为网络不匹配
func (g *Gateway) EnsureDeployed(ctx context.Context) error {
	if err := g.Exchange.EnsureDeployed(ctx); err != nil {
		return err
	}
	return g.Token.EnsureDeployed(ctx)
}

// EtherBalance 钱包原生币余额
func (g *Gateway) EtherBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	balance, err := g.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("get native balance: %w", err)
	}
	return balance, nil
}

// TokenBalance 钱包代币余额
func (g *Gateway) TokenBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return g.Token.BalanceOf(ctx, account)
}

// ExchangeBalance 交易所内余额，token 传零地址表示原生币
func (g *Gateway) ExchangeBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return g.Exchange.BalanceOf(ctx, token, account)
}
