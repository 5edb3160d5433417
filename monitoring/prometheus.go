package monitoring

import (
	"net/http"

	"stakemine/logx"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type OpResult string

var (
	OpResultOk       OpResult = "ok"
	OpResultRejected OpResult = "rejected"
)

type enginePromMetrics struct {
	engineUpUnixSeconds prometheus.Gauge
	operationCount      *prometheus.CounterVec
	poolCount           prometheus.Gauge
	totalStaked         *prometheus.GaugeVec
	rewardsPaid         *prometheus.CounterVec
	panicCount          prometheus.Counter
}

func newEnginePromMetrics() *enginePromMetrics {
	return &enginePromMetrics{
		engineUpUnixSeconds: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stakemine_engine_up_timestamp_unix_seconds",
				Help: "Unix timestamp of the engine start",
			},
		),
		operationCount: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stakemine_engine_operation_total",
				Help: "Engine operations by name and result",
			},
			[]string{"op", "result"},
		),
		poolCount: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "stakemine_engine_pool_count",
				Help: "Number of initialized pools",
			},
		),
		totalStaked: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stakemine_engine_total_staked",
				Help: "Sum of active staked amounts per pool",
			},
			[]string{"pool"},
		),
		rewardsPaid: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stakemine_engine_rewards_paid_total",
				Help: "Cumulative reward units paid out per pool",
			},
			[]string{"pool"},
		),
		panicCount: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stakemine_engine_panic_total",
				Help: "Recovered panics in background goroutines",
			},
		),
	}
}

var engineMetrics *enginePromMetrics

// InitMetrics initializes metrics for the engine but does not expose them to an api yet
func InitMetrics() {
	engineMetrics = newEnginePromMetrics()
	engineMetrics.engineUpUnixSeconds.SetToCurrentTime()
}

func RegisterMetrics(mux *http.ServeMux) {
	logx.Info("MONITORING", "Registering prometheus metrics")
	mux.Handle("/metrics", promhttp.Handler())
}

func RecordOperation(op string, result OpResult) {
	if engineMetrics == nil {
		return
	}
	engineMetrics.operationCount.With(prometheus.Labels{
		"op":     op,
		"result": string(result),
	}).Inc()
}

func IncreasePoolCount() {
	if engineMetrics == nil {
		return
	}
	engineMetrics.poolCount.Inc()
}

func SetTotalStaked(pool string, amount uint64) {
	if engineMetrics == nil {
		return
	}
	engineMetrics.totalStaked.With(prometheus.Labels{"pool": pool}).Set(float64(amount))
}

func AddRewardsPaid(pool string, amount uint64) {
	if engineMetrics == nil {
		return
	}
	engineMetrics.rewardsPaid.With(prometheus.Labels{"pool": pool}).Add(float64(amount))
}

func IncreasePanicCount() {
	if engineMetrics == nil {
		return
	}
	engineMetrics.panicCount.Inc()
}
