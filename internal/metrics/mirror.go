package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicresume",
			Subsystem: "mirror",
			Name:      "writes_total",
			Help:      "状态镜像写入次数，按命名空间与结果区分。",
		},
		[]string{"namespace", "result"},
	)

	mirrorCoalescedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magicresume",
			Subsystem: "mirror",
			Name:      "coalesced_total",
			Help:      "被更新快照覆盖而未写出的快照数量。",
		},
		[]string{"namespace"},
	)

	mirrorPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "magicresume",
			Subsystem: "mirror",
			Name:      "pending",
			Help:      "等待写出的命名空间数量。",
		},
	)
)

// ObserveMirrorWrite 记录一次镜像写入结果。
func ObserveMirrorWrite(namespace string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mirrorWritesTotal.WithLabelValues(namespace, result).Inc()
}

// ObserveMirrorCoalesced 记录一次快照合并。
func ObserveMirrorCoalesced(namespace string) {
	mirrorCoalescedTotal.WithLabelValues(namespace).Inc()
}

// SetMirrorPending 更新待写出数量。
func SetMirrorPending(n int) {
	mirrorPending.Set(float64(n))
}
