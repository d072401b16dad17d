package metrics

import (
	"github.com/shockbridge/shockbridge/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shockbridge"

const (
	RESULT_ACCEPTED = "accepted"
	RESULT_IGNORED  = "ignored"
	RESULT_SENT     = "sent"
	RESULT_DROPPED  = "dropped"
	RESULT_FAILED   = "failed"
)

var (
	adapterMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "adapter_messages_total",
		Help:      "Messages received by protocol adapters.",
	}, []string{"adapter", "result"})

	dispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatches_total",
		Help:      "Canonical commands handed to the output channel.",
	}, []string{"channel", "trigger", "result"})

	channelIntensity = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channel_intensity",
		Help:      "Last canonical intensity per channel, before range mapping.",
	}, []string{"channel"})

	shockMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "shock_mode",
		Help:      "1 when slider one drives the shock channel.",
	})

	outputConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "output_connected",
		Help:      "1 when the output transport is usable.",
	}, []string{"transport"})
)

func AdapterMessage(adapter, result string) {
	adapterMessages.WithLabelValues(adapter, result).Inc()
}

func Dispatch(cmd domain.CanonicalCommand, trigger domain.DispatchTrigger, result string) {
	dispatches.WithLabelValues(cmd.Channel.String(), trigger.String(), result).Inc()
}

func ChannelSnapshot(snapshot domain.ChannelSnapshot) {
	channelIntensity.WithLabelValues(domain.ChannelVibrate.String()).Set(float64(snapshot.Vibrate))
	channelIntensity.WithLabelValues(domain.ChannelShock.String()).Set(float64(snapshot.Shock))
	shockMode.Set(boolToFloat(snapshot.ShockMode))
}

func OutputStatus(status domain.OutputStatus) {
	outputConnected.WithLabelValues(string(status.Transport)).Set(boolToFloat(status.Connected))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
