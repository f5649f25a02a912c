package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dex-terminal/internal/terminal/config"
	"dex-terminal/internal/terminal/selector"
	"dex-terminal/internal/terminal/store"

	"github.com/bytedance/sonic"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 派生视图按状态版本缓存，同版本的重复请求不重算
const (
	viewCacheTTL     = time.Minute
	viewCacheCleanup = 5 * time.Minute
)

// Ops 交易发起入口，由 service.Operations 实现
type Ops interface {
	DepositEther(ctx context.Context, amount decimal.Decimal) error
	WithdrawEther(ctx context.Context, amount decimal.Decimal) error
	DepositToken(ctx context.Context, amount decimal.Decimal) error
	WithdrawToken(ctx context.Context, amount decimal.Decimal) error
	MakeBuyOrder(ctx context.Context, amount, price decimal.Decimal) error
	MakeSellOrder(ctx context.Context, amount, price decimal.Decimal) error
	CancelOrder(ctx context.Context, id uint64) error
	FillOrder(ctx context.Context, id uint64) error
}

// Server 终端视图与操作的 HTTP 入口
type Server struct {
	tl          *zap.Logger
	st          *store.Store
	ops         Ops
	broadcaster *Broadcaster
	views       *cache.Cache
	server      *http.Server
}

func NewServer(tl *zap.Logger, cfg config.ApiConfig, st *store.Store, ops Ops, broadcaster *Broadcaster) *Server {
	s := &Server{
		tl:          tl,
		st:          st,
		ops:         ops,
		broadcaster: broadcaster,
		views:       cache.New(viewCacheTTL, viewCacheCleanup),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /orderbook", s.handleOrderBook)
	mux.HandleFunc("GET /trades", s.handleTrades)
	mux.HandleFunc("GET /myorders", s.handleMyOrders)
	mux.HandleFunc("GET /mytrades", s.handleMyTrades)
	mux.HandleFunc("GET /chart", s.handleChart)
	mux.HandleFunc("GET /balances", s.handleBalances)
	mux.HandleFunc("GET /ws", broadcaster.Handle)

	mux.HandleFunc("POST /deposit/ether", s.handleAmount("deposit ether", ops.DepositEther))
	mux.HandleFunc("POST /withdraw/ether", s.handleAmount("withdraw ether", ops.WithdrawEther))
	mux.HandleFunc("POST /deposit/token", s.handleAmount("deposit token", ops.DepositToken))
	mux.HandleFunc("POST /withdraw/token", s.handleAmount("withdraw token", ops.WithdrawToken))
	mux.HandleFunc("POST /orders/buy", s.handleOrder("make buy order", ops.MakeBuyOrder))
	mux.HandleFunc("POST /orders/sell", s.handleOrder("make sell order", ops.MakeSellOrder))
	mux.HandleFunc("POST /orders/cancel", s.handleByID("cancel order", ops.CancelOrder))
	mux.HandleFunc("POST /orders/fill", s.handleByID("fill order", ops.FillOrder))

	s.server = &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}
	return s
}

// Run 启动 HTTP 服务
func (s *Server) Run() {
	go func() {
		s.tl.Info("api server listening", zap.String("addr", s.server.Addr))
		s.server.ListenAndServe()
	}()
}

// Stop 优雅关闭 HTTP 服务
func (s *Server) Stop(ctx context.Context) error {
	s.server.SetKeepAlivesEnabled(false)
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// ---- 视图查询 ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, version := s.st.Snapshot()
	s.writeJSON(w, map[string]interface{}{
		"version":         version,
		"orderBookLoaded": selector.OrderBookLoaded(state),
		"cancelledLoaded": state.CancelledLoaded,
		"filledLoaded":    state.FilledLoaded,
		"allLoaded":       state.AllLoaded,
	})
}

func (s *Server) handleOrderBook(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "orderbook", func(st store.State) interface{} {
		return selector.OrderBookView(st)
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "trades", func(st store.State) interface{} {
		return selector.TradeTape(st)
	})
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "myorders", func(st store.State) interface{} {
		return selector.MyOpenOrders(st, st.Account)
	})
}

func (s *Server) handleMyTrades(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "mytrades", func(st store.State) interface{} {
		return selector.MyFilledOrders(st, st.Account)
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "chart", func(st store.State) interface{} {
		return selector.PriceChartView(st)
	})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, "balances", func(st store.State) interface{} {
		return selector.BalancesView(st)
	})
}

// serveView 同一个状态版本的同名视图只序列化一次
func (s *Server) serveView(w http.ResponseWriter, name string, build func(st store.State) interface{}) {
	state, version := s.st.Snapshot()
	key := name + ":" + strconv.FormatUint(version, 10)

	if cached, ok := s.views.Get(key); ok {
		s.writeRaw(w, cached.([]byte))
		return
	}

	data, err := sonic.Marshal(build(state))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.views.Set(key, data, cache.DefaultExpiration)
	s.writeRaw(w, data)
}

// ---- 交易操作 ----

type amountRequest struct {
	Amount string `json:"amount"`
}

type orderRequest struct {
	Amount string `json:"amount"`
	Price  string `json:"price"`
}

type idRequest struct {
	ID uint64 `json:"id"`
}

func (s *Server) handleAmount(op string, fn func(ctx context.Context, amount decimal.Decimal) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		amount, err := parseAmount(req.Amount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.runOp(w, r, op, func(ctx context.Context) error {
			return fn(ctx, amount)
		})
	}
}

func (s *Server) handleOrder(op string, fn func(ctx context.Context, amount, price decimal.Decimal) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		amount, err := parseAmount(req.Amount)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		price, err := parseAmount(req.Price)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.runOp(w, r, op, func(ctx context.Context) error {
			return fn(ctx, amount, price)
		})
	}
}

func (s *Server) handleByID(op string, fn func(ctx context.Context, id uint64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.runOp(w, r, op, func(ctx context.Context) error {
			return fn(ctx, req.ID)
		})
	}
}

func (s *Server) runOp(w http.ResponseWriter, r *http.Request, op string, fn func(ctx context.Context) error) {
	if err := fn(r.Context()); err != nil {
		s.tl.Error("❌ operation failed", zap.String("op", op), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.writeJSON(w, map[string]string{"status": "submitted"})
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive, got %s", amount)
	}
	return amount, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeRaw(w, data)
}

func (s *Server) writeRaw(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
