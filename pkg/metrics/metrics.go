// Package metrics 提供 Prometheus 指标定义与采集器
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hedge"

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// gRPC 请求计数
	GRPCRequestsTotal *prometheus.CounterVec
	// gRPC 请求耗时
	GRPCRequestDuration *prometheus.HistogramVec

	// 业务指标
	OptionsPricedTotal         *prometheus.CounterVec
	DegeneratePricesTotal      prometheus.Counter
	ScenarioEvaluationsTotal   prometheus.Counter
	ScenarioEvaluationDuration prometheus.Histogram
	SweepPointsTotal           prometheus.Counter
	SweepDuration              prometheus.Histogram
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		GRPCRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "grpc_requests_total",
			Help:      "Total gRPC requests",
		}, []string{"method", "code"}),
		GRPCRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "grpc_request_duration_seconds",
			Help:      "gRPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		OptionsPricedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "options_priced_total",
			Help:      "Total option pricings by option type",
		}, []string{"option_type"}),
		DegeneratePricesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "degenerate_prices_total",
			Help:      "Pricings that fell back to the degenerate sentinel",
		}),
		ScenarioEvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "scenario_evaluations_total",
			Help:      "Total scenario evaluations",
		}),
		ScenarioEvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "scenario_evaluation_duration_seconds",
			Help:      "Scenario evaluation duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		SweepPointsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "sweep_points_total",
			Help:      "Total grid points evaluated by sweeps",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: serviceName,
			Name:      "sweep_duration_seconds",
			Help:      "Scenario sweep duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.GRPCRequestDuration,
		m.OptionsPricedTotal,
		m.DegeneratePricesTotal,
		m.ScenarioEvaluationsTotal,
		m.ScenarioEvaluationDuration,
		m.SweepPointsTotal,
		m.SweepDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}

// NewHTTPServer 创建 Prometheus 抓取端点服务
func NewHTTPServer(port int, path string, gatherer prometheus.Gatherer) *http.Server {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
	// 记录 gRPC 请求
	RecordGRPCRequest(method, code string, duration time.Duration)
	// 记录一次期权定价
	RecordOptionPriced(optionType string, degenerate bool)
	// 记录一次情景评估
	RecordScenarioEvaluation(duration time.Duration)
	// 记录一次网格扫描
	RecordSweep(points int, duration time.Duration)
}

// DefaultMetricsCollector 默认指标收集器实现
type DefaultMetricsCollector struct {
	metrics *Metrics
}

// NewDefaultMetricsCollector 创建默认指标收集器
func NewDefaultMetricsCollector(metrics *Metrics) *DefaultMetricsCollector {
	return &DefaultMetricsCollector{metrics: metrics}
}

// RecordHTTPRequest 记录 HTTP 请求
func (dmc *DefaultMetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	dmc.metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	dmc.metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGRPCRequest 记录 gRPC 请求
func (dmc *DefaultMetricsCollector) RecordGRPCRequest(method, code string, duration time.Duration) {
	dmc.metrics.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
	dmc.metrics.GRPCRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordOptionPriced 记录期权定价
func (dmc *DefaultMetricsCollector) RecordOptionPriced(optionType string, degenerate bool) {
	dmc.metrics.OptionsPricedTotal.WithLabelValues(optionType).Inc()
	if degenerate {
		dmc.metrics.DegeneratePricesTotal.Inc()
	}
}

// RecordScenarioEvaluation 记录情景评估
func (dmc *DefaultMetricsCollector) RecordScenarioEvaluation(duration time.Duration) {
	dmc.metrics.ScenarioEvaluationsTotal.Inc()
	dmc.metrics.ScenarioEvaluationDuration.Observe(duration.Seconds())
}

// RecordSweep 记录网格扫描
func (dmc *DefaultMetricsCollector) RecordSweep(points int, duration time.Duration) {
	dmc.metrics.SweepPointsTotal.Add(float64(points))
	dmc.metrics.SweepDuration.Observe(duration.Seconds())
}

// NopCollector 不做任何记录，用于 CLI 与测试
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, time.Duration) {}
func (NopCollector) RecordGRPCRequest(string, string, time.Duration) {}
func (NopCollector) RecordOptionPriced(string, bool) {}
func (NopCollector) RecordScenarioEvaluation(time.Duration) {}
func (NopCollector) RecordSweep(int, time.Duration) {}
