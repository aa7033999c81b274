package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	SignalsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_signals_received_total",
		Help: "Raw completion signals seen, by source",
	}, []string{"source"})

	SignalsAccepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_signals_accepted_total",
		Help: "Signals that created a payment result, by source",
	}, []string{"source"})

	SignalsSwallowed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_signals_swallowed_total",
		Help: "Duplicate signals absorbed by first-writer-wins, by source",
	}, []string{"source"})

	SignalsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_signals_rejected_total",
		Help: "Signals dropped for missing orderId or txHash, by source",
	}, []string{"source"})
)

func init() {
	prometheus.MustRegister(SignalsReceived, SignalsAccepted, SignalsSwallowed, SignalsRejected)
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
