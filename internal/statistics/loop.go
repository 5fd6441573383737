package statistics

import (
	"github.com/grid2go/grid2go/internal/loop"
	"github.com/prometheus/client_golang/prometheus"
)

const loopSubsystem = "loop"

type LoopCollector struct {
	loops []*loop.ControlLoop

	tick          *prometheus.Desc
	duty          *prometheus.Desc
	sector        *prometheus.Desc
	measured      *prometheus.Desc
	voltage       *prometheus.Desc
	overmodulated *prometheus.Desc
}

func NewLoopCollector(loops []*loop.ControlLoop) *LoopCollector {
	return &LoopCollector{
		loops: loops,
		tick: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "tick"),
			"Number of executed control ticks",
			[]string{"id"}, nil,
		),
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "duty"),
			"Current duty cycle per phase",
			[]string{"id", "phase"}, nil,
		),
		sector: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "sector"),
			"Current space vector sector",
			[]string{"id"}, nil,
		),
		measured: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "measured"),
			"Measured rotating frame value per axis",
			[]string{"id", "axis"}, nil,
		),
		voltage: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "voltage"),
			"Commanded rotating frame voltage per axis",
			[]string{"id", "axis"}, nil,
		),
		overmodulated: prometheus.NewDesc(prometheus.BuildFQName(namespace, loopSubsystem, "overmodulated"),
			"Whether the most recent tick left the linear modulation range",
			[]string{"id"}, nil,
		),
	}
}

func (collector *LoopCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.tick
	ch <- collector.duty
	ch <- collector.sector
	ch <- collector.measured
	ch <- collector.voltage
	ch <- collector.overmodulated
}

func (collector *LoopCollector) Collect(ch chan<- prometheus.Metric) {
	for _, l := range collector.loops {
		loopId := l.GetId()
		snapshot := l.Snapshot()

		ch <- prometheus.MustNewConstMetric(collector.tick, prometheus.CounterValue, float64(snapshot.Tick), loopId)
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, snapshot.Duties.A, loopId, "a")
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, snapshot.Duties.B, loopId, "b")
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, snapshot.Duties.C, loopId, "c")
		ch <- prometheus.MustNewConstMetric(collector.sector, prometheus.GaugeValue, float64(snapshot.Sector), loopId)
		ch <- prometheus.MustNewConstMetric(collector.measured, prometheus.GaugeValue, snapshot.Measured.D, loopId, "d")
		ch <- prometheus.MustNewConstMetric(collector.measured, prometheus.GaugeValue, snapshot.Measured.Q, loopId, "q")
		ch <- prometheus.MustNewConstMetric(collector.voltage, prometheus.GaugeValue, snapshot.Voltage.D, loopId, "d")
		ch <- prometheus.MustNewConstMetric(collector.voltage, prometheus.GaugeValue, snapshot.Voltage.Q, loopId, "q")

		overmodulated := 0.0
		if snapshot.Overmodulated {
			overmodulated = 1.0
		}
		ch <- prometheus.MustNewConstMetric(collector.overmodulated, prometheus.GaugeValue, overmodulated, loopId)
	}
}
