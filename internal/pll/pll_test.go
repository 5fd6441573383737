package pll

import (
	"math"
	"testing"

	"github.com/grid2go/grid2go/internal/util"
	"github.com/stretchr/testify/assert"
)

const (
	testSampleRate = 10000.0
	testTickPeriod = 1.0 / testSampleRate

	// Averaging the estimates over the last settleWindow ticks
	// removes the per-tick ripple of the proportional path.
	settleWindow = 500

	frequencyTolerance = 0.01
	phaseTolerance     = 0.1
)

func defaultTestConfig() Config {
	return Config{
		NominalFrequency: 50,
		SampleRate:       testSampleRate,
		Kp:               88,
		Ki:               3947,
		FrequencyBand:    10,
	}
}

// gridSignal produces samples of a sine at the given frequency and
// initial phase, optionally distorted with a harmonic of relative
// amplitude harmonicLevel.
func gridSignal(frequency float64, initialPhase float64, harmonicOrder int, harmonicLevel float64) func(tick int) float64 {
	return func(tick int) float64 {
		angle := 2*math.Pi*frequency*float64(tick)*testTickPeriod + initialPhase
		sample := math.Sin(angle)
		if harmonicOrder > 0 {
			sample += harmonicLevel * math.Sin(float64(harmonicOrder)*angle)
		}
		return sample
	}
}

// runAndAverage drives the PLL for ticks samples and averages the
// frequency estimate and the wrapped phase error over the last
// settleWindow ticks.
func runAndAverage(t *testing.T, p *SPLL, signal func(tick int) float64, signalFrequency float64, initialPhase float64, ticks int) (avgFrequency float64, avgPhaseError float64) {
	t.Helper()

	var frequencies, phaseErrors []float64
	for i := 0; i < ticks; i++ {
		output := p.Update(signal(i))

		if i < ticks-settleWindow {
			continue
		}
		// Theta now refers to the start of the next tick.
		expected := 2*math.Pi*signalFrequency*float64(i+1)*testTickPeriod + initialPhase
		frequencies = append(frequencies, output.Frequency)
		phaseErrors = append(phaseErrors, util.AngleDiff(output.Theta, expected))
	}
	return util.Avg(frequencies), util.Avg(phaseErrors)
}

func TestSpllConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(config *Config)
	}{
		{"zero nominal frequency", func(c *Config) { c.NominalFrequency = 0 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"sample rate below nyquist", func(c *Config) { c.SampleRate = 80 }},
		{"negative sogi gain", func(c *Config) { c.SogiGain = -1 }},
		{"negative kp", func(c *Config) { c.Kp = -1 }},
		{"zero frequency band", func(c *Config) { c.FrequencyBand = 0 }},
		{"band above nominal", func(c *Config) { c.FrequencyBand = 60 }},
		{"nan ki", func(c *Config) { c.Ki = math.NaN() }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// GIVEN
			config := defaultTestConfig()
			tc.mutate(&config)

			// WHEN
			p, err := NewSPLL(config)

			// THEN
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestSpllLocksAtNominalFrequency(t *testing.T) {
	// GIVEN
	p, err := NewSPLL(defaultTestConfig())
	assert.NoError(t, err)
	signalFrequency := 50.0
	initialPhase := 0.3

	// WHEN
	avgFrequency, avgPhaseError := runAndAverage(t, p,
		gridSignal(signalFrequency, initialPhase, 0, 0),
		signalFrequency, initialPhase, 8000)

	// THEN
	assert.InDelta(t, signalFrequency, avgFrequency, frequencyTolerance)
	assert.InDelta(t, 0, avgPhaseError, phaseTolerance)
}

func TestSpllTracksOffNominalFrequencies(t *testing.T) {
	for _, signalFrequency := range []float64{48.5, 52.0} {
		// GIVEN
		p, err := NewSPLL(defaultTestConfig())
		assert.NoError(t, err)
		initialPhase := 0.3

		// WHEN
		avgFrequency, avgPhaseError := runAndAverage(t, p,
			gridSignal(signalFrequency, initialPhase, 0, 0),
			signalFrequency, initialPhase, 8000)

		// THEN
		assert.InDelta(t, signalFrequency, avgFrequency, frequencyTolerance)
		assert.InDelta(t, 0, avgPhaseError, phaseTolerance)
	}
}

func TestSpllPhaseDetectorIsAmplitudeIndependent(t *testing.T) {
	// GIVEN
	config := defaultTestConfig()
	signalFrequency := 50.0
	initialPhase := 0.3

	// WHEN
	var phaseErrors []float64
	for _, amplitude := range []float64{1.0, 0.2} {
		p, err := NewSPLL(config)
		assert.NoError(t, err)
		signal := func(tick int) float64 {
			return amplitude * gridSignal(signalFrequency, initialPhase, 0, 0)(tick)
		}
		_, avgPhaseError := runAndAverage(t, p, signal, signalFrequency, initialPhase, 8000)
		phaseErrors = append(phaseErrors, avgPhaseError)
	}

	// THEN
	assert.InDelta(t, phaseErrors[0], phaseErrors[1], 0.01)
}

func TestSpllFrequencyStaysWithinBand(t *testing.T) {
	// GIVEN
	config := defaultTestConfig()
	p, err := NewSPLL(config)
	assert.NoError(t, err)
	// 65 Hz sits outside the ±10 Hz capture band around 50 Hz.
	signal := gridSignal(65, 0, 0, 0)
	minAllowed := config.NominalFrequency - config.FrequencyBand
	maxAllowed := config.NominalFrequency + config.FrequencyBand

	// WHEN / THEN
	for i := 0; i < 12000; i++ {
		output := p.Update(signal(i))
		assert.GreaterOrEqual(t, output.Frequency, minAllowed-1e-9)
		assert.LessOrEqual(t, output.Frequency, maxAllowed+1e-9)
	}
}

func TestSpllLocksOnDistortedSignalWithNotch(t *testing.T) {
	// GIVEN a 50 Hz fundamental with 10 % third harmonic and a notch
	// at 150 Hz
	config := defaultTestConfig()
	config.Notch = &NotchConfig{Frequency: 150, Quality: 5}
	p, err := NewSPLL(config)
	assert.NoError(t, err)
	signalFrequency := 50.0
	initialPhase := 0.3

	// WHEN
	avgFrequency, avgPhaseError := runAndAverage(t, p,
		gridSignal(signalFrequency, initialPhase, 3, 0.1),
		signalFrequency, initialPhase, 12000)

	// THEN
	assert.InDelta(t, signalFrequency, avgFrequency, frequencyTolerance)
	assert.InDelta(t, 0, avgPhaseError, phaseTolerance)
}

func TestSpllNotchValidation(t *testing.T) {
	// GIVEN a notch at the Nyquist frequency
	config := defaultTestConfig()
	config.Notch = &NotchConfig{Frequency: testSampleRate / 2, Quality: 5}

	// WHEN
	p, err := NewSPLL(config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestSpllReset(t *testing.T) {
	// GIVEN a locked loop
	config := defaultTestConfig()
	p, err := NewSPLL(config)
	assert.NoError(t, err)
	signal := gridSignal(52, 0.3, 0, 0)
	for i := 0; i < 8000; i++ {
		p.Update(signal(i))
	}
	assert.InDelta(t, 52, p.Frequency(), 0.5)

	// WHEN
	p.Reset()

	// THEN
	assert.Equal(t, config.NominalFrequency, p.Frequency())
	assert.Equal(t, 0.0, p.Theta())
}
