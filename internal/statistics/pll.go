package statistics

import (
	"github.com/grid2go/grid2go/internal/loop"
	"github.com/prometheus/client_golang/prometheus"
)

const pllSubsystem = "pll"

type PllCollector struct {
	loops []*loop.ControlLoop

	frequency    *prometheus.Desc
	frequencyAvg *prometheus.Desc
	theta        *prometheus.Desc
}

func NewPllCollector(loops []*loop.ControlLoop) *PllCollector {
	return &PllCollector{
		loops: loops,
		frequency: prometheus.NewDesc(prometheus.BuildFQName(namespace, pllSubsystem, "frequency"),
			"Current frequency estimate of the loop's PLL",
			[]string{"id"}, nil,
		),
		frequencyAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, pllSubsystem, "frequency_avg"),
			"Moving average of the frequency estimate",
			[]string{"id"}, nil,
		),
		theta: prometheus.NewDesc(prometheus.BuildFQName(namespace, pllSubsystem, "theta"),
			"Current phase estimate of the loop's PLL",
			[]string{"id"}, nil,
		),
	}
}

func (collector *PllCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.frequency
	ch <- collector.frequencyAvg
	ch <- collector.theta
}

func (collector *PllCollector) Collect(ch chan<- prometheus.Metric) {
	for _, l := range collector.loops {
		loopId := l.GetId()
		snapshot := l.Snapshot()

		ch <- prometheus.MustNewConstMetric(collector.frequency, prometheus.GaugeValue, snapshot.Frequency, loopId)
		ch <- prometheus.MustNewConstMetric(collector.frequencyAvg, prometheus.GaugeValue, l.FrequencyMovingAvg(), loopId)
		ch <- prometheus.MustNewConstMetric(collector.theta, prometheus.GaugeValue, snapshot.Theta, loopId)
	}
}
