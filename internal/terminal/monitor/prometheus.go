package monitor

import "github.com/prometheus/client_golang/prometheus"

var (
	// EventsReceived 各事件订阅收到的链上事件数
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_events_received_total",
			Help: "Total number of contract events received per event type.",
		},
		[]string{"event"},
	)

	// BackfillDuration 历史事件回补耗时
	BackfillDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backfill_fetch_duration_seconds",
			Help:    "Time taken to fetch one historical event stream.",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"stream"},
	)
	BackfillErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_fetch_errors_total",
			Help: "Total number of failed historical event stream fetches.",
		},
		[]string{"stream"},
	)
	BackfillRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backfill_records_loaded",
			Help: "Number of records loaded by the last successful backfill per stream.",
		},
		[]string{"stream"},
	)

	// TxSubmitted 交易提交指标
	TxSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tx_submitted_total",
			Help: "Total number of transactions accepted into the pending pool per operation.",
		},
		[]string{"op"},
	)
	TxErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tx_errors_total",
			Help: "Total number of transaction submissions rejected per operation.",
		},
		[]string{"op"},
	)

	// BalanceRefreshDuration 四项余额刷新耗时
	BalanceRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "balance_refresh_duration_seconds",
			Help:    "Time taken to refresh the four balance snapshots.",
			Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
		},
	)

	// WsClients websocket 推送指标
	WsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_clients",
			Help: "Number of connected websocket view clients.",
		},
	)
	WsBroadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_broadcasts_total",
			Help: "Total number of state versions broadcast to websocket clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		// 事件与回补指标
		EventsReceived,
		BackfillDuration,
		BackfillErrors,
		BackfillRecords,

		// 交易指标
		TxSubmitted,
		TxErrors,

		// 余额与推送指标
		BalanceRefreshDuration,
		WsClients,
		WsBroadcasts,
	)
}
