package gateway

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func parseABIs(t *testing.T) (abi.ABI, abi.ABI) {
	t.Helper()
	exchange, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	require.NoError(t, err)
	erc20, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	require.NoError(t, err)
	return exchange, erc20
}

func TestABIDefinitions(t *testing.T) {
	exchange, erc20 := parseABIs(t)

	for _, ev := range []string{"Deposit", "Withdraw", "Order", "Cancel", "Trade"} {
		_, ok := exchange.Events[ev]
		assert.True(t, ok, "missing exchange event %s", ev)
	}
	for _, m := range []string{"balanceOf", "depositEther", "withdrawEther", "depositToken", "withdrawToken", "makeOrder", "cancelOrder", "fillOrder"} {
		_, ok := exchange.Methods[m]
		assert.True(t, ok, "missing exchange method %s", m)
	}
	for _, m := range []string{"name", "symbol", "decimals", "totalSupply", "balanceOf", "allowance", "approve", "transfer", "transferFrom"} {
		_, ok := erc20.Methods[m]
		assert.True(t, ok, "missing erc20 method %s", m)
	}
}

func testExchange(t *testing.T) *Exchange {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(exchangeABIJSON))
	require.NoError(t, err)
	return &Exchange{
		tl:  zap.NewNop(),
		abi: parsed,
		// 解析测试不触网
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
}

func TestParseOrderLog(t *testing.T) {
	e := testExchange(t)

	user := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenGet := common.HexToAddress("0x1111111111111111111111111111111111111111")

	data, err := e.abi.Events["Order"].Inputs.Pack(
		big.NewInt(42),
		user,
		tokenGet,
		big.NewInt(1000),
		common.Address{},
		big.NewInt(2000),
		big.NewInt(1700000000),
	)
	require.NoError(t, err)

	o, err := e.parseOrder(types.Log{Data: data}, "Order")
	require.NoError(t, err)

	assert.Equal(t, uint64(42), o.ID)
	assert.Equal(t, user, o.User)
	assert.Equal(t, tokenGet, o.TokenGet)
	assert.Equal(t, int64(1000), o.AmountGet.Int64())
	assert.Equal(t, common.Address{}, o.TokenGive)
	assert.Equal(t, int64(2000), o.AmountGive.Int64())
	assert.Equal(t, int64(1700000000), o.Timestamp)
}

func TestParseTradeLog(t *testing.T) {
	e := testExchange(t)

	user := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	userFill := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")

	data, err := e.abi.Events["Trade"].Inputs.Pack(
		big.NewInt(7),
		user,
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(1000),
		common.Address{},
		big.NewInt(2000),
		userFill,
		big.NewInt(1700000100),
	)
	require.NoError(t, err)

	tr, err := e.parseTrade(types.Log{Data: data})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), tr.ID)
	assert.Equal(t, userFill, tr.UserFill)
	assert.Equal(t, int64(1700000100), tr.Timestamp)
}

func TestParseOrderLogMalformed(t *testing.T) {
	e := testExchange(t)

	_, err := e.parseOrder(types.Log{Data: []byte{0x01, 0x02}}, "Order")
	assert.Error(t, err)
}
