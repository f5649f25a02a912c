package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYaml = `
log:
  level: debug
eth:
  rpc_url: ws://127.0.0.1:8545
  chain_id: 1337
  rate_limit: 50
  call_timeout_sec: 10
contracts:
  exchange: "0x1111111111111111111111111111111111111111"
  token: "0x2222222222222222222222222222222222222222"
api:
  addr: :8088
monitor:
  enable: true
  prometheus_addr: :9108
backfill:
  from_block: 0
  timeout_sec: 60
`

func TestInitConfigFrom(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.terminal.yaml"), []byte(testYaml), 0644)
	require.NoError(t, err)

	cfg := InitConfigFrom(dir)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ws://127.0.0.1:8545", cfg.Eth.RpcURL)
	assert.Equal(t, int64(1337), cfg.Eth.ChainID)
	assert.Equal(t, 50, cfg.Eth.RateLimit)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.Contracts.Exchange)
	assert.Equal(t, ":8088", cfg.Api.Addr)
	assert.True(t, cfg.Monitor.Enable)
	assert.Equal(t, 60, cfg.Backfill.TimeoutSec)
}
