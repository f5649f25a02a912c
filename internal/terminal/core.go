package terminal

import (
	"context"
	"errors"
	"time"

	"dex-terminal/internal/terminal/api"
	"dex-terminal/internal/terminal/backfill"
	"dex-terminal/internal/terminal/config"
	"dex-terminal/internal/terminal/gateway"
	"dex-terminal/internal/terminal/monitor"
	"dex-terminal/internal/terminal/service"
	"dex-terminal/internal/terminal/store"
	"dex-terminal/internal/terminal/subscriber"
	"dex-terminal/internal/terminal/wallet"
	"dex-terminal/pkg/evm_client"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type Core struct {
	cfg config.Config
	tl  *zap.Logger

	st          *store.Store
	gw          *gateway.Gateway
	balances    *service.Balances
	backfill    *backfill.Backfill
	subscriber  *subscriber.Subscriber
	api         *api.Server
	broadcaster *api.Broadcaster
	metrics     *monitor.MetricsServer
}

func New(cfg config.Config, tl *zap.Logger) *Core {
	// 初始化链端客户端
	client := evm_client.Init(cfg.Eth.RpcURL)

	// 初始化签名账户
	signer, err := wallet.New(cfg.Account.PrivateKey, cfg.Eth.ChainID)
	if err != nil {
		panic(err)
	}

	callTimeout := time.Duration(cfg.Eth.CallTimeoutSec) * time.Second

	// 初始化合约网关
	gw, err := gateway.New(tl, client,
		common.HexToAddress(cfg.Contracts.Exchange),
		common.HexToAddress(cfg.Contracts.Token),
		cfg.Eth.RateLimit, callTimeout, cfg.Backfill.FromBlock)
	if err != nil {
		panic(err)
	}

	// 初始化状态容器
	st := store.New(tl)
	st.AccountLoaded(signer.Address())

	// 初始化余额刷新与交易服务
	balances := service.NewBalances(tl, gw, st, gw.Token.Address(), signer.Address())
	ops := service.NewOperations(tl, gw.Exchange, gw.Token, signer, st)

	// 初始化视图推送与 HTTP 入口
	broadcaster := api.NewBroadcaster(tl, st)

	core := &Core{
		cfg:         cfg,
		tl:          tl,
		st:          st,
		gw:          gw,
		balances:    balances,
		backfill:    backfill.New(tl, gw.Exchange, st, time.Duration(cfg.Backfill.TimeoutSec)*time.Second),
		subscriber:  subscriber.New(tl, gw.Exchange, st, balances),
		api:         api.NewServer(tl, cfg.Api, st, ops, broadcaster),
		broadcaster: broadcaster,
		metrics:     monitor.NewMetricsServer(cfg.Monitor),
	}
	return core
}

func (c *Core) Start(ctx context.Context) {
	c.tl.Info("Starting terminal core...")

	// 启动监控服务
	if c.metrics != nil {
		c.metrics.Run()
	}

	// 启动视图推送与 HTTP 入口，链端不可用时也照常提供已有视图
	c.broadcaster.Run(ctx)
	c.api.Run()

	// 合约缺失视为连错网络：不回补不订阅，loaded 标记保持 false
	if err := c.gw.EnsureDeployed(ctx); err != nil {
		if errors.Is(err, gateway.ErrNotDeployed) {
			c.tl.Error("❌ " + err.Error())
			<-ctx.Done()
			return
		}
		panic(err)
	}

	// 先建立订阅再回补，窗口内的重复事件靠 id 去重
	if err := c.subscriber.Run(ctx); err != nil {
		panic(err)
	}
	c.balances.Refresh(ctx)
	go c.backfill.Run(ctx)

	c.tl.Info("Terminal started successfully")

	// 等待外部关闭信号
	<-ctx.Done()
	c.tl.Info("Shutting down terminal due to context cancellation...")
}

// Stop 优雅关闭 Core 的所有资源
func (c *Core) Stop(ctx context.Context) {
	c.tl.Info("Stopping terminal core...")

	// 停止 HTTP 入口
	if c.api != nil {
		_ = c.api.Stop(ctx)
	}

	// 停止 Prometheus 监控服务
	if c.metrics != nil {
		_ = c.metrics.Stop(ctx)
	}

	c.tl.Info("Terminal core stopped.")
}
