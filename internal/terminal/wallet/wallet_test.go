package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hardhat 默认账户 0
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewWallet(t *testing.T) {
	w, err := New(testKey, 1337)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address().Hex())

	opts, err := w.TransactOpts()
	require.NoError(t, err)
	assert.Equal(t, w.Address(), opts.From)
}

func TestNewWalletHexPrefix(t *testing.T) {
	w, err := New("0x"+testKey, 1337)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", w.Address().Hex())
}

func TestNewWalletEmptyKey(t *testing.T) {
	_, err := New("", 1337)
	assert.Error(t, err)
}

func TestNewWalletBadKey(t *testing.T) {
	_, err := New("zzzz", 1337)
	assert.Error(t, err)
}
