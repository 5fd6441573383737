package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/grid2go/grid2go/internal/compensator"
	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/modulator"
	"github.com/grid2go/grid2go/internal/pll"
	"github.com/grid2go/grid2go/internal/transform"
	"github.com/grid2go/grid2go/internal/ui"
	"github.com/grid2go/grid2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	LoopMap = cmap.New[*ControlLoop]()
)

const frequencyWindowSize = 500

// Source provides one three phase sample per tick.
type Source interface {
	GetId() string

	Step() transform.ThreePhase

	Reset()
}

// Snapshot captures the state of one control tick.
type Snapshot struct {
	Tick  uint64               `json:"tick"`
	Input transform.ThreePhase `json:"input"`

	Theta     float64 `json:"theta"`
	Frequency float64 `json:"frequency"`

	Measured transform.DQ `json:"measured"`
	Voltage  transform.DQ `json:"voltage"`

	Duties        modulator.Duties `json:"duties"`
	Sector        int              `json:"sector"`
	Overmodulated bool             `json:"overmodulated"`
}

// ControlLoop owns one full control chain: a signal source, the PLL
// tracking its phase, one compensator per rotating frame axis and the
// modulator producing switching duties.
type ControlLoop struct {
	Config configuration.LoopConfig `json:"config"`

	source     Source
	spll       *pll.SPLL
	dComp      compensator.Compensator
	qComp      compensator.Compensator
	modulator  *modulator.SVPWM
	tickPeriod float64

	mu              sync.Mutex
	tick            uint64
	snapshot        Snapshot
	trace           *Trace
	frequencyWindow *rolling.PointPolicy
}

func NewControlLoop(
	config configuration.LoopConfig,
	source Source,
	dComp compensator.Compensator,
	qComp compensator.Compensator,
) (*ControlLoop, error) {
	if config.TickRate <= 0 {
		return nil, fmt.Errorf("loop %s: tick rate must be positive, got %f", config.ID, config.TickRate)
	}

	pllConfig := pll.Config{
		NominalFrequency: config.Pll.NominalFrequency,
		SampleRate:       config.TickRate,
		SogiGain:         config.Pll.SogiGain,
		Kp:               config.Pll.Kp,
		Ki:               config.Pll.Ki,
		FrequencyBand:    config.Pll.FrequencyBand,
	}
	if config.Pll.Notch != nil {
		pllConfig.Notch = &pll.NotchConfig{
			Frequency: config.Pll.Notch.Frequency,
			Quality:   config.Pll.Notch.Quality,
		}
	}
	spll, err := pll.NewSPLL(pllConfig)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", config.ID, err)
	}

	svpwm, err := modulator.NewSVPWM(config.DCLinkVoltage)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", config.ID, err)
	}

	return &ControlLoop{
		Config:          config,
		source:          source,
		spll:            spll,
		dComp:           dComp,
		qComp:           qComp,
		modulator:       svpwm,
		tickPeriod:      1 / config.TickRate,
		trace:           NewTrace(config.TraceDepth),
		frequencyWindow: util.CreateRollingWindow(frequencyWindowSize),
	}, nil
}

func (l *ControlLoop) GetId() string {
	return l.Config.ID
}

// Step executes one control tick: sample the source, track its phase,
// rotate the measurement into the rotating frame, regulate both axes
// against their setpoints, rotate the result back and modulate it.
func (l *ControlLoop) Step() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	input := l.source.Step()

	// Phase tracking uses the scalar phase A signal.
	pllOutput := l.spll.Update(input.A)

	measured := transform.ClarkePark(input, pllOutput.Theta)

	voltage := transform.DQ{
		D: l.dComp.Update(l.Config.DReference - measured.D),
		Q: l.qComp.Update(l.Config.QReference - measured.Q),
	}

	reference := transform.InversePark(voltage, pllOutput.Theta)
	result := l.modulator.Modulate(reference)

	l.tick++
	l.snapshot = Snapshot{
		Tick:          l.tick,
		Input:         input,
		Theta:         pllOutput.Theta,
		Frequency:     pllOutput.Frequency,
		Measured:      measured,
		Voltage:       voltage,
		Duties:        result.Duties,
		Sector:        result.Sector,
		Overmodulated: result.Overmodulated,
	}
	l.trace.Record(l.snapshot)
	l.frequencyWindow.Append(pllOutput.Frequency)

	return l.snapshot
}

// Snapshot returns the state of the most recent tick.
func (l *ControlLoop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

// FrequencyMovingAvg returns the PLL frequency estimate averaged over
// a rolling window of recent ticks.
func (l *ControlLoop) FrequencyMovingAvg() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return util.GetWindowAvg(l.frequencyWindow)
}

// TraceSnapshots returns the recorded trace, oldest first.
func (l *ControlLoop) TraceSnapshots() []Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trace.Snapshots()
}

// Reset returns the whole chain to its initial state.
func (l *ControlLoop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.source.Reset()
	l.spll.Reset()
	l.dComp.Reset()
	l.qComp.Reset()
	l.tick = 0
	l.snapshot = Snapshot{}
}

// Run executes the loop at its configured tick rate until the context
// is cancelled.
func (l *ControlLoop) Run(ctx context.Context) error {
	interval := time.Duration(float64(time.Second) * l.tickPeriod)
	tick := time.Tick(interval)
	for {
		select {
		case <-ctx.Done():
			ui.Info("Stopping control loop %s...", l.Config.ID)
			return nil
		case <-tick:
			l.Step()
		}
	}
}
