package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按路由模板统计的请求数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsroom_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})

	// HTTPActiveRequests 进行中的请求数
	HTTPActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "newsroom_http_active_requests",
		Help: "Number of currently active HTTP requests",
	})

	// ImportItemsTotal 导入项处理结果
	ImportItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_import_items_total",
		Help: "Import queue items processed by final status",
	}, []string{"status"})

	// AutoPublishedPostsTotal 自动发布的文章数
	AutoPublishedPostsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_auto_published_posts_total",
		Help: "Posts generated from trending topics",
	})

	// ScheduledPublishedTotal 定时发布成功数
	ScheduledPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_scheduled_published_total",
		Help: "Scheduled posts and pages flipped to published",
	}, []string{"kind"})
)

// RecordImportItem 记录导入项最终状态
func RecordImportItem(status string) {
	ImportItemsTotal.WithLabelValues(status).Inc()
}

// RecordAutoPublished 记录自动发布数量
func RecordAutoPublished(count int) {
	if count <= 0 {
		return
	}
	AutoPublishedPostsTotal.Add(float64(count))
}

// RecordScheduledPublished 记录定时发布
func RecordScheduledPublished(kind string) {
	ScheduledPublishedTotal.WithLabelValues(kind).Inc()
}
