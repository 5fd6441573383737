package modulator

import (
	"math"
	"testing"

	"github.com/grid2go/grid2go/internal/transform"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-9

func TestSvpwmRequiresPositiveDcLinkVoltage(t *testing.T) {
	for _, voltage := range []float64{0, -400, math.NaN(), math.Inf(1)} {
		m, err := NewSVPWM(voltage)
		assert.Error(t, err)
		assert.Nil(t, m)
	}
}

func TestSvpwmPropagatesNonFiniteReference(t *testing.T) {
	// GIVEN
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	// WHEN
	result := m.Modulate(transform.AlphaBeta{Alpha: math.NaN(), Beta: 0})

	// THEN the garbage flows through instead of failing the tick
	assert.True(t, math.IsNaN(result.Duties.A))
	assert.True(t, math.IsNaN(result.Duties.B))
	assert.True(t, math.IsNaN(result.Duties.C))
	assert.True(t, math.IsNaN(result.ModulationIndex))
}

func TestSvpwmModulatesReferenceOnAlphaAxis(t *testing.T) {
	// GIVEN a reference of half the linear range on the A axis
	m, err := NewSVPWM(2)
	assert.NoError(t, err)

	// WHEN
	result := m.Modulate(transform.AlphaBeta{Alpha: 1, Beta: 0})

	// THEN
	assert.Equal(t, 1, result.Sector)
	assert.InDelta(t, 0.875, result.Duties.A, tolerance)
	assert.InDelta(t, 0.125, result.Duties.B, tolerance)
	assert.InDelta(t, 0.125, result.Duties.C, tolerance)
	assert.InDelta(t, math.Sqrt(3)/2, result.ModulationIndex, tolerance)
	assert.False(t, result.Overmodulated)
}

func TestSvpwmZeroReferenceCentersAllPhases(t *testing.T) {
	// GIVEN
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	// WHEN
	result := m.Modulate(transform.AlphaBeta{})

	// THEN
	assert.Equal(t, 1, result.Sector)
	assert.Equal(t, Duties{A: 0.5, B: 0.5, C: 0.5}, result.Duties)
	assert.Equal(t, 0.0, result.ModulationIndex)
}

func TestSvpwmSectorProgression(t *testing.T) {
	// GIVEN sector interior angles, counterclockwise
	cases := []struct {
		angleDegrees float64
		sector       int
	}{
		{30, 1}, {90, 2}, {150, 3}, {210, 4}, {270, 5}, {330, 6},
	}
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	for _, tc := range cases {
		// WHEN
		angle := tc.angleDegrees * math.Pi / 180
		sin, cos := math.Sincos(angle)
		result := m.Modulate(transform.AlphaBeta{Alpha: 100 * cos, Beta: 100 * sin})

		// THEN
		assert.Equal(t, tc.sector, result.Sector)
	}
}

func TestSvpwmSectorBoundariesResolveToLowerSector(t *testing.T) {
	// GIVEN references exactly on the sector boundaries
	halfSqrt3 := math.Sqrt(3) / 2
	cases := []struct {
		reference transform.AlphaBeta
		sector    int
	}{
		{transform.AlphaBeta{Alpha: 1, Beta: 0}, 1},
		{transform.AlphaBeta{Alpha: 0.5, Beta: halfSqrt3}, 1},
		{transform.AlphaBeta{Alpha: -0.5, Beta: halfSqrt3}, 2},
		{transform.AlphaBeta{Alpha: -1, Beta: 0}, 3},
		{transform.AlphaBeta{Alpha: -0.5, Beta: -halfSqrt3}, 4},
		{transform.AlphaBeta{Alpha: 0.5, Beta: -halfSqrt3}, 5},
	}
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	for _, tc := range cases {
		// WHEN
		result := m.Modulate(tc.reference)

		// THEN
		assert.Equal(t, tc.sector, result.Sector)
	}
}

func TestSvpwmReconstructsReferenceFromDuties(t *testing.T) {
	// GIVEN a reference well inside the linear range, swept over a
	// full electrical revolution
	dcLinkVoltage := 400.0
	magnitude := 100.0
	m, err := NewSVPWM(dcLinkVoltage)
	assert.NoError(t, err)

	for degrees := 0; degrees < 360; degrees++ {
		angle := float64(degrees) * math.Pi / 180
		sin, cos := math.Sincos(angle)
		reference := transform.AlphaBeta{Alpha: magnitude * cos, Beta: magnitude * sin}

		// WHEN
		result := m.Modulate(reference)
		assert.False(t, result.Overmodulated)

		// THEN the phase voltages implied by the duties carry the
		// reference, the common mode drops out in the transform
		phases := transform.ThreePhase{
			A: dcLinkVoltage * result.Duties.A,
			B: dcLinkVoltage * result.Duties.B,
			C: dcLinkVoltage * result.Duties.C,
		}
		reconstructed := transform.Clarke(phases)
		assert.InDelta(t, reference.Alpha, reconstructed.Alpha, tolerance)
		assert.InDelta(t, reference.Beta, reconstructed.Beta, tolerance)
	}
}

func TestSvpwmDutiesStayWithinBounds(t *testing.T) {
	// GIVEN references up to well beyond the linear range
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	for degrees := 0; degrees < 360; degrees += 5 {
		for _, magnitude := range []float64{50, 230, 400, 1000} {
			angle := float64(degrees) * math.Pi / 180
			sin, cos := math.Sincos(angle)

			// WHEN
			result := m.Modulate(transform.AlphaBeta{Alpha: magnitude * cos, Beta: magnitude * sin})

			// THEN
			assert.GreaterOrEqual(t, result.Duties.A, 0.0)
			assert.LessOrEqual(t, result.Duties.A, 1.0)
			assert.GreaterOrEqual(t, result.Duties.B, 0.0)
			assert.LessOrEqual(t, result.Duties.B, 1.0)
			assert.GreaterOrEqual(t, result.Duties.C, 0.0)
			assert.LessOrEqual(t, result.Duties.C, 1.0)
		}
	}
}

func TestSvpwmFlagsOvermodulation(t *testing.T) {
	// GIVEN a reference beyond the linear range
	m, err := NewSVPWM(400)
	assert.NoError(t, err)

	// WHEN
	result := m.Modulate(transform.AlphaBeta{Alpha: 300, Beta: 0})

	// THEN the active times are rescaled onto the hexagon boundary
	assert.True(t, result.Overmodulated)
	assert.Greater(t, result.ModulationIndex, 1.0)
	assert.InDelta(t, 1.0, result.Duties.A, tolerance)
	assert.InDelta(t, 0.0, result.Duties.B, tolerance)
	assert.InDelta(t, 0.0, result.Duties.C, tolerance)
}
