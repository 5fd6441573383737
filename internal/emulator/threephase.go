package emulator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/grid2go/grid2go/internal/transform"
	"github.com/grid2go/grid2go/internal/util"
)

const twoPiOverThree = 2 * math.Pi / 3

// Harmonic adds a harmonic component to every phase, with Magnitude
// relative to the fundamental magnitude.
type Harmonic struct {
	Order     float64 `json:"order"`
	Magnitude float64 `json:"magnitude"`
	Angle     float64 `json:"angle"`
}

// Config describes an emulated three phase grid signal.
type Config struct {
	// NominalFrequency is the grid frequency in Hz.
	NominalFrequency float64 `json:"nominalFrequency"`
	// SampleRate is the tick rate in Hz at which Step is called.
	SampleRate float64 `json:"sampleRate"`
	// Magnitude is the peak value of the fundamental.
	Magnitude float64 `json:"magnitude"`
	// PhaseOffset shifts all phases by the given angle (rad).
	PhaseOffset float64 `json:"phaseOffset"`
	// Harmonics distort each phase.
	Harmonics []Harmonic `json:"harmonics,omitempty"`
	// NoiseMagnitude is the standard deviation of Gaussian noise
	// relative to Magnitude, uncorrelated across phases.
	NoiseMagnitude float64 `json:"noiseMagnitude"`
	// Seed makes the noise deterministic when nonzero.
	Seed int64 `json:"seed,omitempty"`
}

func (c Config) validate() error {
	if c.NominalFrequency <= 0 {
		return fmt.Errorf("nominal frequency must be positive, got %f", c.NominalFrequency)
	}
	if c.SampleRate <= 2*c.NominalFrequency {
		return fmt.Errorf("sample rate %f Hz is too low for a %f Hz fundamental", c.SampleRate, c.NominalFrequency)
	}
	if c.Magnitude <= 0 || !util.IsFinite(c.Magnitude) {
		return fmt.Errorf("magnitude must be positive and finite, got %f", c.Magnitude)
	}
	if c.NoiseMagnitude < 0 {
		return fmt.Errorf("noise magnitude must not be negative, got %f", c.NoiseMagnitude)
	}
	for _, h := range c.Harmonics {
		if h.Order <= 1 || h.Magnitude < 0 {
			return fmt.Errorf("invalid harmonic: order %f, magnitude %f", h.Order, h.Magnitude)
		}
	}
	return nil
}

// ThreePhase generates a synthetic three phase waveform one tick at a
// time. It serves as the plant model when no real converter hardware
// is attached.
type ThreePhase struct {
	config     Config
	tickPeriod float64
	rng        *rand.Rand

	angle float64

	frequencyDeviation           float64
	deviationRemainingTicks      int
	magnitudeScale               float64
	magnitudeScaleRemainingTicks int
}

func NewThreePhase(config Config) (*ThreePhase, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &ThreePhase{
		config:         config,
		tickPeriod:     1 / config.SampleRate,
		rng:            rand.New(rand.NewSource(seed)),
		magnitudeScale: 1,
	}, nil
}

// StartFrequencyDeviation shifts the emulated frequency by delta Hz
// for the given number of ticks.
func (e *ThreePhase) StartFrequencyDeviation(delta float64, ticks int) {
	e.frequencyDeviation = delta
	e.deviationRemainingTicks = ticks
}

// StartMagnitudeEvent scales the fundamental magnitude for the given
// number of ticks, emulating voltage sags and swells.
func (e *ThreePhase) StartMagnitudeEvent(scale float64, ticks int) {
	e.magnitudeScale = scale
	e.magnitudeScaleRemainingTicks = ticks
}

// Frequency returns the currently emulated frequency in Hz.
func (e *ThreePhase) Frequency() float64 {
	if e.deviationRemainingTicks > 0 {
		return e.config.NominalFrequency + e.frequencyDeviation
	}
	return e.config.NominalFrequency
}

// Step advances the waveform by one tick and returns the three phase
// sample.
func (e *ThreePhase) Step() transform.ThreePhase {
	frequency := e.config.NominalFrequency
	if e.deviationRemainingTicks > 0 {
		frequency += e.frequencyDeviation
		e.deviationRemainingTicks--
	}

	magnitude := e.config.Magnitude
	if e.magnitudeScaleRemainingTicks > 0 {
		magnitude *= e.magnitudeScale
		e.magnitudeScaleRemainingTicks--
	}

	e.angle = util.WrapTwoPi(e.angle + 2*math.Pi*frequency*e.tickPeriod)
	phase := e.angle + e.config.PhaseOffset

	a := magnitude * math.Sin(phase)
	b := magnitude * math.Sin(phase-twoPiOverThree)
	c := magnitude * math.Sin(phase+twoPiOverThree)

	for _, h := range e.config.Harmonics {
		harmonicMagnitude := h.Magnitude * magnitude
		a += harmonicMagnitude * math.Sin(h.Order*phase+h.Angle)
		b += harmonicMagnitude * math.Sin(h.Order*(phase-twoPiOverThree)+h.Angle)
		c += harmonicMagnitude * math.Sin(h.Order*(phase+twoPiOverThree)+h.Angle)
	}

	if e.config.NoiseMagnitude > 0 {
		noise := e.config.NoiseMagnitude * e.config.Magnitude
		a += e.rng.NormFloat64() * noise
		b += e.rng.NormFloat64() * noise
		c += e.rng.NormFloat64() * noise
	}

	return transform.ThreePhase{A: a, B: b, C: c}
}

// Reset rewinds the waveform to its initial angle and cancels any
// running events.
func (e *ThreePhase) Reset() {
	e.angle = 0
	e.frequencyDeviation = 0
	e.deviationRemainingTicks = 0
	e.magnitudeScale = 1
	e.magnitudeScaleRemainingTicks = 0
}
