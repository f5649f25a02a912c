package gateway

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// 代币元数据在合约部署后不再变化，本地缓存即可
const tokenMetaTTL = time.Hour

// Token ERC-20 合约的类型化入口
type Token struct {
	tl          *zap.Logger
	client      *ethclient.Client
	address     common.Address
	abi         abi.ABI
	contract    *bind.BoundContract
	limiter     *rate.Limiter
	callTimeout time.Duration
	meta        *cache.Cache
}

func NewToken(tl *zap.Logger, client *ethclient.Client, address common.Address, limiter *rate.Limiter, callTimeout time.Duration) (*Token, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	return &Token{
		tl:          tl,
		client:      client,
		address:     address,
		abi:         parsed,
		contract:    bind.NewBoundContract(address, parsed, client, client, client),
		limiter:     limiter,
		callTimeout: callTimeout,
		meta:        cache.New(tokenMetaTTL, 10*time.Minute),
	}, nil
}

func (t *Token) Address() common.Address {
	return t.address
}

// EnsureDeployed 检查配置地址上是否有合约代码
func (t *Token) EnsureDeployed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.callTimeout)
	defer cancel()

	code, err := t.client.CodeAt(ctx, t.address, nil)
	if err != nil {
		return fmt.Errorf("check token code: %w", err)
	}
	if len(code) == 0 {
		return fmt.Errorf("token at %s: %w", t.address.Hex(), ErrNotDeployed)
	}
	return nil
}

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (t *Token) Name(ctx context.Context) (string, error) {
	if v, ok := t.meta.Get("name"); ok {
		return v.(string), nil
	}
	out, err := t.call(ctx, "name")
	if err != nil {
		return "", err
	}
	name := out[0].(string)
	t.meta.Set("name", name, cache.DefaultExpiration)
	return name, nil
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	if v, ok := t.meta.Get("symbol"); ok {
		return v.(string), nil
	}
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	symbol := out[0].(string)
	t.meta.Set("symbol", symbol, cache.DefaultExpiration)
	return symbol, nil
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	if v, ok := t.meta.Get("decimals"); ok {
		return v.(uint8), nil
	}
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals := out[0].(uint8)
	t.meta.Set("decimals", decimals, cache.DefaultExpiration)
	return decimals, nil
}

func (t *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	out, err := t.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

func (t *Token) Approve(ctx context.Context, opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.transact(ctx, opts, "approve", spender, amount)
}

func (t *Token) Transfer(ctx context.Context, opts *bind.TransactOpts, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.transact(ctx, opts, "transfer", to, amount)
}

func (t *Token) TransferFrom(ctx context.Context, opts *bind.TransactOpts, from, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.transact(ctx, opts, "transferFrom", from, to, amount)
}

func (t *Token) transact(ctx context.Context, opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	o := *opts
	o.Context = ctx
	tx, err := t.contract.Transact(&o, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return tx, nil
}

func (t *Token) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	input, err := t.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.callTimeout)
	defer cancel()

	output, err := t.client.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	out, err := t.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}
