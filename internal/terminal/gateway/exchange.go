package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"dex-terminal/internal/terminal/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrNotDeployed 配置的地址上没有合约代码，通常是连错了网络
var ErrNotDeployed = errors.New("contract not deployed on the current network, please switch network")

// Exchange 交易所合约的类型化入口
// 读走 eth_call，写走 BoundContract，历史事件走 FilterLogs，实时事件走日志订阅
type Exchange struct {
	tl          *zap.Logger
	client      *ethclient.Client
	address     common.Address
	abi         abi.ABI
	contract    *bind.BoundContract
	limiter     *rate.Limiter
	callTimeout time.Duration
	fromBlock   *big.Int
}

func NewExchange(tl *zap.Logger, client *ethclient.Client, address common.Address, limiter *rate.Limiter, callTimeout time.Duration, fromBlock int64) (*Exchange, error) {
	parsed, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse exchange abi: %w", err)
	}

	return &Exchange{
		tl:          tl,
		client:      client,
		address:     address,
		abi:         parsed,
		contract:    bind.NewBoundContract(address, parsed, client, client, client),
		limiter:     limiter,
		callTimeout: callTimeout,
		fromBlock:   big.NewInt(fromBlock),
	}, nil
}

func (e *Exchange) Address() common.Address {
	return e.address
}

// EnsureDeployed 检查配置地址上是否有合约代码
func (e *Exchange) EnsureDeployed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	code, err := e.client.CodeAt(ctx, e.address, nil)
	if err != nil {
		return fmt.Errorf("check exchange code: %w", err)
	}
	if len(code) == 0 {
		return fmt.Errorf("exchange at %s: %w", e.address.Hex(), ErrNotDeployed)
	}
	return nil
}

// BalanceOf 交易所内某账户某代币的余额，原生币用零地址
func (e *Exchange) BalanceOf(ctx context.Context, token, user common.Address) (*big.Int, error) {
	out, err := e.call(ctx, "balanceOf", token, user)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// ---- 历史事件回补，链的自然发出顺序，不重排 ----

func (e *Exchange) FilterCancels(ctx context.Context) ([]model.Order, error) {
	return e.filterOrderEvents(ctx, "Cancel")
}

func (e *Exchange) FilterOrders(ctx context.Context) ([]model.Order, error) {
	return e.filterOrderEvents(ctx, "Order")
}

func (e *Exchange) FilterTrades(ctx context.Context) ([]model.Trade, error) {
	logs, err := e.filterLogs(ctx, "Trade")
	if err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(logs))
	for _, lg := range logs {
		t, err := e.parseTrade(lg)
		if err != nil {
			e.tl.Warn("❌ skip malformed Trade log", zap.Uint64("block", lg.BlockNumber), zap.Error(err))
			continue
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func (e *Exchange) filterOrderEvents(ctx context.Context, event string) ([]model.Order, error) {
	logs, err := e.filterLogs(ctx, event)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(logs))
	for _, lg := range logs {
		o, err := e.parseOrder(lg, event)
		if err != nil {
			e.tl.Warn("❌ skip malformed log", zap.String("event", event), zap.Uint64("block", lg.BlockNumber), zap.Error(err))
			continue
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (e *Exchange) filterLogs(ctx context.Context, event string) ([]types.Log, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		FromBlock: e.fromBlock,
		Addresses: []common.Address{e.address},
		Topics:    [][]common.Hash{{e.abi.Events[event].ID}},
	}

	logs, err := e.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filter %s logs: %w", event, err)
	}
	return logs, nil
}

// ---- 实时事件订阅，会话期内长驻 ----

func (e *Exchange) WatchCancels(ctx context.Context) (<-chan model.Order, error) {
	return e.watchOrderEvents(ctx, "Cancel")
}

func (e *Exchange) WatchOrders(ctx context.Context) (<-chan model.Order, error) {
	return e.watchOrderEvents(ctx, "Order")
}

func (e *Exchange) WatchTrades(ctx context.Context) (<-chan model.Trade, error) {
	logs, sub, err := e.subscribe(ctx, "Trade")
	if err != nil {
		return nil, err
	}

	out := make(chan model.Trade, 64)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				e.tl.Warn("❌ Trade subscription closed", zap.Error(err))
				return
			case lg := <-logs:
				t, err := e.parseTrade(lg)
				if err != nil {
					e.tl.Warn("❌ skip malformed Trade log", zap.Error(err))
					continue
				}
				out <- t
			}
		}
	}()
	return out, nil
}

func (e *Exchange) WatchDeposits(ctx context.Context) (<-chan model.TransferEvent, error) {
	return e.watchTransferEvents(ctx, "Deposit")
}

func (e *Exchange) WatchWithdraws(ctx context.Context) (<-chan model.TransferEvent, error) {
	return e.watchTransferEvents(ctx, "Withdraw")
}

func (e *Exchange) watchOrderEvents(ctx context.Context, event string) (<-chan model.Order, error) {
	logs, sub, err := e.subscribe(ctx, event)
	if err != nil {
		return nil, err
	}

	out := make(chan model.Order, 64)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				e.tl.Warn("❌ subscription closed", zap.String("event", event), zap.Error(err))
				return
			case lg := <-logs:
				o, err := e.parseOrder(lg, event)
				if err != nil {
					e.tl.Warn("❌ skip malformed log", zap.String("event", event), zap.Error(err))
					continue
				}
				out <- o
			}
		}
	}()
	return out, nil
}

func (e *Exchange) watchTransferEvents(ctx context.Context, event string) (<-chan model.TransferEvent, error) {
	logs, sub, err := e.subscribe(ctx, event)
	if err != nil {
		return nil, err
	}

	out := make(chan model.TransferEvent, 64)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-sub.Err():
				e.tl.Warn("❌ subscription closed", zap.String("event", event), zap.Error(err))
				return
			case lg := <-logs:
				var raw rawTransferEvent
				if err := e.abi.UnpackIntoInterface(&raw, event, lg.Data); err != nil {
					e.tl.Warn("❌ skip malformed log", zap.String("event", event), zap.Error(err))
					continue
				}
				out <- model.TransferEvent{
					Token:   raw.Token,
					User:    raw.User,
					Amount:  raw.Amount,
					Balance: raw.Balance,
				}
			}
		}
	}()
	return out, nil
}

func (e *Exchange) subscribe(ctx context.Context, event string) (chan types.Log, ethereum.Subscription, error) {
	query := ethereum.FilterQuery{
		Addresses: []common.Address{e.address},
		Topics:    [][]common.Hash{{e.abi.Events[event].ID}},
	}

	logs := make(chan types.Log, 64)
	sub, err := e.client.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, nil, fmt.Errorf("subscribe %s: %w", event, err)
	}
	return logs, sub, nil
}

// ---- 交易提交 ----

func (e *Exchange) DepositEther(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	o := *opts
	o.Value = amount
	return e.transact(ctx, &o, "depositEther")
}

func (e *Exchange) WithdrawEther(ctx context.Context, opts *bind.TransactOpts, amount *big.Int) (*types.Transaction, error) {
	return e.transact(ctx, opts, "withdrawEther", amount)
}

func (e *Exchange) DepositToken(ctx context.Context, opts *bind.TransactOpts, token common.Address, amount *big.Int) (*types.Transaction, error) {
	return e.transact(ctx, opts, "depositToken", token, amount)
}

func (e *Exchange) WithdrawToken(ctx context.Context, opts *bind.TransactOpts, token common.Address, amount *big.Int) (*types.Transaction, error) {
	return e.transact(ctx, opts, "withdrawToken", token, amount)
}

func (e *Exchange) MakeOrder(ctx context.Context, opts *bind.TransactOpts, tokenGet common.Address, amountGet *big.Int, tokenGive common.Address, amountGive *big.Int) (*types.Transaction, error) {
	return e.transact(ctx, opts, "makeOrder", tokenGet, amountGet, tokenGive, amountGive)
}

func (e *Exchange) CancelOrder(ctx context.Context, opts *bind.TransactOpts, id uint64) (*types.Transaction, error) {
	return e.transact(ctx, opts, "cancelOrder", new(big.Int).SetUint64(id))
}

func (e *Exchange) FillOrder(ctx context.Context, opts *bind.TransactOpts, id uint64) (*types.Transaction, error) {
	return e.transact(ctx, opts, "fillOrder", new(big.Int).SetUint64(id))
}

func (e *Exchange) transact(ctx context.Context, opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	o := *opts
	o.Context = ctx
	tx, err := e.contract.Transact(&o, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return tx, nil
}

// call eth_call 并解包返回值
func (e *Exchange) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	input, err := e.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	output, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &e.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := e.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// ---- 日志解析 ----

type rawOrderEvent struct {
	Id         *big.Int
	User       common.Address
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	Timestamp  *big.Int
}

type rawTradeEvent struct {
	Id         *big.Int
	User       common.Address
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	UserFill   common.Address
	Timestamp  *big.Int
}

type rawTransferEvent struct {
	Token   common.Address
	User    common.Address
	Amount  *big.Int
	Balance *big.Int
}

func (e *Exchange) parseOrder(lg types.Log, event string) (model.Order, error) {
	var raw rawOrderEvent
	if err := e.abi.UnpackIntoInterface(&raw, event, lg.Data); err != nil {
		return model.Order{}, err
	}
	return model.Order{
		ID:         raw.Id.Uint64(),
		User:       raw.User,
		TokenGet:   raw.TokenGet,
		AmountGet:  raw.AmountGet,
		TokenGive:  raw.TokenGive,
		AmountGive: raw.AmountGive,
		Timestamp:  raw.Timestamp.Int64(),
	}, nil
}

func (e *Exchange) parseTrade(lg types.Log) (model.Trade, error) {
	var raw rawTradeEvent
	if err := e.abi.UnpackIntoInterface(&raw, "Trade", lg.Data); err != nil {
		return model.Trade{}, err
	}
	return model.Trade{
		Order: model.Order{
			ID:         raw.Id.Uint64(),
			User:       raw.User,
			TokenGet:   raw.TokenGet,
			AmountGet:  raw.AmountGet,
			TokenGive:  raw.TokenGive,
			AmountGive: raw.AmountGive,
			Timestamp:  raw.Timestamp.Int64(),
		},
		UserFill: raw.UserFill,
	}, nil
}
