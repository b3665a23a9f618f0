package approver

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(actionsReceivedCounter)
	prometheus.MustRegister(messageDeliveriesCounter)
}

var actionsReceivedCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "slackgate_actions_received_total",
		Help: "Total number of button interactions received",
	},
	[]string{"action"},
)

var messageDeliveriesCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "slackgate_message_deliveries_total",
		Help: "Total number of message post/update calls",
	},
	[]string{"operation", "status"},
)
