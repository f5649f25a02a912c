package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"dex-terminal/internal/terminal/model"
	"dex-terminal/internal/terminal/store"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	ether         *big.Int
	token         *big.Int
	exchangeEther *big.Int
	exchangeToken *big.Int
	etherErr      error
}

func (f *fakeReader) EtherBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.ether, f.etherErr
}

func (f *fakeReader) TokenBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return f.token, nil
}

func (f *fakeReader) ExchangeBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	if token == model.EtherAddress {
		return f.exchangeEther, nil
	}
	return f.exchangeToken, nil
}

func TestRefreshLoadsAllBalances(t *testing.T) {
	reader := &fakeReader{
		ether:         big.NewInt(1),
		token:         big.NewInt(2),
		exchangeEther: big.NewInt(3),
		exchangeToken: big.NewInt(4),
	}
	st := store.New(zap.NewNop())

	b := NewBalances(zap.NewNop(), reader, st, common.HexToAddress("0x01"), common.HexToAddress("0x02"))
	b.Refresh(context.Background())

	state, _ := st.Snapshot()
	assert.Equal(t, big.NewInt(1), state.EtherBalance)
	assert.Equal(t, big.NewInt(2), state.TokenBalance)
	assert.Equal(t, big.NewInt(3), state.ExchangeEtherBalance)
	assert.Equal(t, big.NewInt(4), state.ExchangeTokenBalance)
	assert.False(t, state.BalancesLoading)
}

func TestRefreshFailedItemKeepsOthers(t *testing.T) {
	reader := &fakeReader{
		token:         big.NewInt(2),
		exchangeEther: big.NewInt(3),
		exchangeToken: big.NewInt(4),
		etherErr:      errors.New("rpc unavailable"),
	}
	st := store.New(zap.NewNop())

	b := NewBalances(zap.NewNop(), reader, st, common.HexToAddress("0x01"), common.HexToAddress("0x02"))
	b.Refresh(context.Background())

	state, _ := st.Snapshot()
	// 失败的一项保持未加载，其余三项照常更新
	assert.Nil(t, state.EtherBalance)
	assert.Equal(t, big.NewInt(2), state.TokenBalance)
	assert.Equal(t, big.NewInt(3), state.ExchangeEtherBalance)
	assert.Equal(t, big.NewInt(4), state.ExchangeTokenBalance)
	assert.False(t, state.BalancesLoading)
}
