package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// OrdersTotal 按操作和结果计数（op: submit/rest/modify/cancel）
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gophermatch",
			Name:      "orders_total",
			Help:      "Total number of engine commands by operation and result.",
		},
		[]string{"op", "result"},
	)

	// TradeVolume 成交量累计（股数）
	TradeVolume = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gophermatch",
			Name:      "trade_volume_total",
			Help:      "Total traded quantity.",
		},
	)

	// TradeNotional 成交额累计（tick 计）
	TradeNotional = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gophermatch",
			Name:      "trade_notional_ticks_total",
			Help:      "Total traded notional in integer ticks.",
		},
	)

	// ApplyDuration 单条命令在 actor 里的处理耗时
	ApplyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gophermatch",
			Name:      "apply_duration_seconds",
			Help:      "Engine command apply latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		},
		[]string{"op"},
	)

	// BestTick 两侧盘口（空盘为 -1）
	BestTick = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gophermatch",
			Name:      "best_tick",
			Help:      "Best quote tick per side (-1 when empty).",
		},
		[]string{"side"},
	)

	// PoolFree 订单池剩余槽位
	PoolFree = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gophermatch",
			Name:      "order_pool_free_slots",
			Help:      "Free slots left in the order pool.",
		},
	)

	RateLimitBlockTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gophermatch",
			Name:      "ratelimit_block_total",
			Help:      "Total number of rate limit blocks.",
		},
		[]string{"route"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		OrdersTotal,
		TradeVolume,
		TradeNotional,
		ApplyDuration,
		BestTick,
		PoolFree,
		RateLimitBlockTotal,
	)
}
