package compensator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testTickPeriod = 0.001

func TestPIDRejectsInvalidTickPeriod(t *testing.T) {
	// WHEN
	_, err := NewPID(1.0, 0.0, 0.0, 0.0, DefaultLimits())

	// THEN
	assert.Error(t, err)
}

func TestPIDProportionalOnly(t *testing.T) {
	// GIVEN
	c, err := NewPID(0.5, 0.0, 0.0, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)

	// WHEN
	out := c.Update(2.0)

	// THEN
	assert.InDelta(t, 1.0, out, 1e-9)
}

func TestPIDIntegralOnly(t *testing.T) {
	// GIVEN
	c, err := NewPID(0.0, 10.0, 0.0, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)

	// WHEN
	// 100 ticks of constant error 1.0: integral = 0.1s * 1.0
	var out float64
	for i := 0; i < 100; i++ {
		out = c.Update(1.0)
	}

	// THEN
	assert.InDelta(t, 1.0, out, 1e-9)
}

func TestPIDDerivativeSkipsFirstTick(t *testing.T) {
	// GIVEN
	c, err := NewPID(0.0, 0.0, 0.001, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)

	// WHEN
	first := c.Update(1.0)
	second := c.Update(2.0)

	// THEN
	assert.Equal(t, 0.0, first)
	// derivative term: kd * (2.0-1.0) / tickPeriod
	assert.InDelta(t, 1.0, second, 1e-9)
}

func TestPIDConditionalIntegration(t *testing.T) {
	// GIVEN
	// a PID saturated at its upper limit
	limits := Limits{Min: 0.0, Max: 1.0}
	c, err := NewPID(0.1, 100.0, 0.0, testTickPeriod, limits)
	assert.NoError(t, err)
	for i := 0; i < 50; i++ {
		c.Update(1.0)
	}
	assert.Equal(t, 1.0, c.Output())
	frozen := c.integral

	// WHEN
	// more positive error while saturated
	c.Update(1.0)

	// THEN
	// the integral is frozen, not accumulating
	assert.Equal(t, frozen, c.integral)

	// WHEN
	// error reverses
	out := c.Update(-1.0)

	// THEN
	assert.Less(t, out, 1.0)
}

func TestPIDReset(t *testing.T) {
	// GIVEN
	c, err := NewPID(1.0, 1.0, 1.0, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)
	c.Update(1.0)
	c.Update(2.0)

	// WHEN
	c.Reset()

	// THEN
	assert.Equal(t, 0.0, c.Output())
	// derivative is skipped again after reset
	assert.InDelta(t, 3.0*1.0+1.0*3.0*testTickPeriod, c.Update(3.0), 1e-9)
}
