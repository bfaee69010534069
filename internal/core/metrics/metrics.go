package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StreamedUsers 经流式接口推送出去的用户条数，按传输方式区分
	StreamedUsers = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "user_directory_streamed_users_total", Help: "Users delivered by streaming calls"},
		[]string{"transport"},
	)
	// StreamsTotal 流式调用结果：completed / cancelled / failed
	StreamsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "user_directory_streams_total", Help: "Streaming calls by outcome"},
		[]string{"transport", "outcome"},
	)
)

func init() { prometheus.MustRegister(StreamedUsers, StreamsTotal) }

type counter interface{ Count() int }

// RegisterUserGauge 暴露当前用户数；重复注册返回错误
func RegisterUserGauge(reg prometheus.Registerer, store counter) error {
	return reg.Register(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "user_directory_users", Help: "Users currently stored"},
		func() float64 { return float64(store.Count()) },
	))
}
