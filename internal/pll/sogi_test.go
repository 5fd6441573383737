package pll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSogiProducesUnitGainQuadraturePair(t *testing.T) {
	// GIVEN a SOGI resonating at the input frequency
	omega := 2 * math.Pi * 50.0
	s := NewSOGI(DefaultSogiGain, testTickPeriod)

	// WHEN the SOGI has settled on a unit sine
	for i := 0; i < 8000; i++ {
		s.Update(math.Sin(omega*float64(i)*testTickPeriod), omega)
	}

	// THEN both outputs have unit amplitude and the pair traces a
	// circle of radius one
	var maxInPhase, maxQuadrature float64
	for i := 8000; i < 8200; i++ {
		inPhase, quadrature := s.Update(math.Sin(omega*float64(i)*testTickPeriod), omega)
		maxInPhase = math.Max(maxInPhase, math.Abs(inPhase))
		maxQuadrature = math.Max(maxQuadrature, math.Abs(quadrature))
		assert.InDelta(t, 1, math.Hypot(inPhase, quadrature), 0.01)
	}
	assert.InDelta(t, 1, maxInPhase, 0.001)
	assert.InDelta(t, 1, maxQuadrature, 0.001)
}

func TestSogiReset(t *testing.T) {
	// GIVEN
	omega := 2 * math.Pi * 50.0
	s := NewSOGI(DefaultSogiGain, testTickPeriod)
	for i := 0; i < 100; i++ {
		s.Update(math.Sin(omega*float64(i)*testTickPeriod), omega)
	}

	// WHEN
	s.Reset()
	inPhase, quadrature := s.Update(0, omega)

	// THEN
	assert.Equal(t, 0.0, inPhase)
	assert.Equal(t, 0.0, quadrature)
}

func TestNotchRejectsCenterFrequency(t *testing.T) {
	// GIVEN a notch at 150 Hz
	n, err := designNotch(150, 5, testSampleRate)
	assert.NoError(t, err)
	omega := 2 * math.Pi * 150.0

	// WHEN driven with a unit sine at the center frequency
	var peak float64
	for i := 0; i < 40000; i++ {
		output := n.Update(math.Sin(omega * float64(i) * testTickPeriod))
		if i > 38000 {
			peak = math.Max(peak, math.Abs(output))
		}
	}

	// THEN the steady-state output is fully suppressed
	assert.Less(t, peak, 1e-9)
}

func TestNotchPassesFundamental(t *testing.T) {
	// GIVEN a notch at 150 Hz
	n, err := designNotch(150, 5, testSampleRate)
	assert.NoError(t, err)
	omega := 2 * math.Pi * 50.0

	// WHEN driven with a unit sine well below the center frequency
	var peak float64
	for i := 0; i < 40000; i++ {
		output := n.Update(math.Sin(omega * float64(i) * testTickPeriod))
		if i > 38000 {
			peak = math.Max(peak, math.Abs(output))
		}
	}

	// THEN the fundamental passes with close to unit gain
	assert.InDelta(t, 1, peak, 0.01)
}

func TestNotchDesignValidation(t *testing.T) {
	cases := []struct {
		name      string
		frequency float64
		quality   float64
	}{
		{"zero frequency", 0, 5},
		{"negative quality", 150, -1},
		{"at nyquist", testSampleRate / 2, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := designNotch(tc.frequency, tc.quality, testSampleRate)
			assert.Error(t, err)
			assert.Nil(t, n)
		})
	}
}
