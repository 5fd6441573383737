package pll

import (
	"fmt"
	"math"

	"github.com/grid2go/grid2go/internal/util"
)

const (
	// DefaultSogiGain is the usual critically damped SOGI gain.
	DefaultSogiGain = math.Sqrt2

	// amplitudeFloor guards the phase detector normalization against
	// division by near-zero amplitudes before the SOGI has spun up.
	amplitudeFloor = 1e-6
)

// NotchConfig describes an optional notch filter applied to both SOGI
// outputs before the phase detector, typically centered at a low-order
// harmonic of the grid fundamental.
type NotchConfig struct {
	Frequency float64
	Quality   float64
}

// Config holds the tuning of a single-phase SOGI PLL.
type Config struct {
	// NominalFrequency is the expected grid frequency in Hz.
	NominalFrequency float64
	// SampleRate is the tick rate in Hz at which Update is called.
	SampleRate float64
	// SogiGain is the SOGI damping gain. Zero selects DefaultSogiGain.
	SogiGain float64
	// Kp and Ki tune the loop filter acting on the phase error.
	Kp float64
	Ki float64
	// FrequencyBand limits the estimated frequency to
	// NominalFrequency ± FrequencyBand (Hz).
	FrequencyBand float64
	// Notch, if set, filters both SOGI outputs before the phase
	// detector.
	Notch *NotchConfig
}

func (c Config) validate() error {
	if !util.AllFinite(c.NominalFrequency, c.SampleRate, c.SogiGain, c.Kp, c.Ki, c.FrequencyBand) {
		return fmt.Errorf("pll config contains non-finite values")
	}
	if c.NominalFrequency <= 0 {
		return fmt.Errorf("nominal frequency must be positive, got %f", c.NominalFrequency)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %f", c.SampleRate)
	}
	if c.SampleRate <= 2*c.NominalFrequency {
		return fmt.Errorf("sample rate %f Hz is too low for a %f Hz fundamental", c.SampleRate, c.NominalFrequency)
	}
	if c.SogiGain < 0 {
		return fmt.Errorf("sogi gain must not be negative, got %f", c.SogiGain)
	}
	if c.Kp < 0 || c.Ki < 0 {
		return fmt.Errorf("loop gains must not be negative, got kp %f, ki %f", c.Kp, c.Ki)
	}
	if c.FrequencyBand <= 0 {
		return fmt.Errorf("frequency band must be positive, got %f", c.FrequencyBand)
	}
	if c.FrequencyBand >= c.NominalFrequency {
		return fmt.Errorf("frequency band %f Hz must be below the nominal frequency %f Hz", c.FrequencyBand, c.NominalFrequency)
	}
	return nil
}

// Output is the per-tick result of the PLL.
type Output struct {
	// Theta is the estimated grid phase in [0, 2π).
	Theta float64
	// Frequency is the estimated grid frequency in Hz.
	Frequency float64
	// InPhase and Quadrature are the SOGI outputs, after the notch
	// filter when one is configured.
	InPhase    float64
	Quadrature float64
}

// SPLL is a single-phase software phase-locked loop. A SOGI generates
// the quadrature pair from the scalar grid sample, a phase detector
// projects the pair onto the current phase estimate, and a PI loop
// filter steers the estimated frequency. The frequency is clamped to
// the configured band around nominal and the integrator is frozen
// while the clamp is active.
type SPLL struct {
	config Config

	sogi       *SOGI
	notchV     *notchBiquad
	notchQV    *notchBiquad
	tickPeriod float64
	omegaNom   float64
	omegaMin   float64
	omegaMax   float64

	omega    float64
	theta    float64
	integral float64
}

func NewSPLL(config Config) (*SPLL, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.SogiGain == 0 {
		config.SogiGain = DefaultSogiGain
	}

	tickPeriod := 1 / config.SampleRate
	omegaNom := 2 * math.Pi * config.NominalFrequency
	omegaBand := 2 * math.Pi * config.FrequencyBand

	p := &SPLL{
		config:     config,
		sogi:       NewSOGI(config.SogiGain, tickPeriod),
		tickPeriod: tickPeriod,
		omegaNom:   omegaNom,
		omegaMin:   omegaNom - omegaBand,
		omegaMax:   omegaNom + omegaBand,
		omega:      omegaNom,
	}

	if config.Notch != nil {
		var err error
		p.notchV, err = designNotch(config.Notch.Frequency, config.Notch.Quality, config.SampleRate)
		if err != nil {
			return nil, err
		}
		p.notchQV, err = designNotch(config.Notch.Frequency, config.Notch.Quality, config.SampleRate)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Update advances the PLL by one tick with the given grid sample.
func (p *SPLL) Update(sample float64) Output {
	inPhase, quadrature := p.sogi.Update(sample, p.omega)
	if p.notchV != nil {
		inPhase = p.notchV.Update(inPhase)
		quadrature = p.notchQV.Update(quadrature)
	}

	amplitude := math.Hypot(inPhase, quadrature)
	var phaseError float64
	if amplitude > amplitudeFloor {
		sin, cos := math.Sincos(p.theta)
		phaseError = (inPhase*cos + quadrature*sin) / amplitude
	}

	// The integrator only commits while the frequency stays inside
	// the band, so a sustained offset cannot wind it up against the
	// clamp.
	integral := p.integral + p.config.Ki*phaseError*p.tickPeriod
	omega := p.omegaNom + p.config.Kp*phaseError + integral
	if omega >= p.omegaMin && omega <= p.omegaMax {
		p.integral = integral
		p.omega = omega
	} else {
		p.omega = util.Coerce(omega, p.omegaMin, p.omegaMax)
	}

	p.theta = util.WrapTwoPi(p.theta + p.omega*p.tickPeriod)

	return Output{
		Theta:      p.theta,
		Frequency:  p.omega / (2 * math.Pi),
		InPhase:    inPhase,
		Quadrature: quadrature,
	}
}

// Theta returns the current phase estimate in [0, 2π).
func (p *SPLL) Theta() float64 {
	return p.theta
}

// Frequency returns the current frequency estimate in Hz.
func (p *SPLL) Frequency() float64 {
	return p.omega / (2 * math.Pi)
}

// Reset returns the PLL to its initial state with the frequency
// estimate back at nominal.
func (p *SPLL) Reset() {
	p.sogi.Reset()
	if p.notchV != nil {
		p.notchV.Reset()
		p.notchQV.Reset()
	}
	p.omega = p.omegaNom
	p.theta = 0
	p.integral = 0
}
