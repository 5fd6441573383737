package compensator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCascadeRequiresStages(t *testing.T) {
	// WHEN
	_, err := NewCascade()

	// THEN
	assert.Error(t, err)
}

func TestCascadeSingleStageMatchesStage(t *testing.T) {
	// GIVEN
	reference, err := NewTwoPoleTwoZero(stableTwoPoleCoefficients(), DefaultLimits())
	assert.NoError(t, err)
	stage, err := NewTwoPoleTwoZero(stableTwoPoleCoefficients(), DefaultLimits())
	assert.NoError(t, err)
	cascade, err := NewCascade(stage)
	assert.NoError(t, err)

	// WHEN / THEN
	for i := 0; i < 50; i++ {
		assert.Equal(t, reference.Update(1.0), cascade.Update(1.0))
	}
}

func TestCascadeChainsStageOutputs(t *testing.T) {
	// GIVEN
	// two pure proportional stages with gains 2 and 3
	first, err := NewPID(2.0, 0.0, 0.0, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)
	second, err := NewPID(3.0, 0.0, 0.0, testTickPeriod, DefaultLimits())
	assert.NoError(t, err)
	cascade, err := NewCascade(first, second)
	assert.NoError(t, err)

	// WHEN
	out := cascade.Update(1.5)

	// THEN
	assert.InDelta(t, 9.0, out, 1e-9)
	assert.Equal(t, out, cascade.Output())
}

func TestCascadeReset(t *testing.T) {
	// GIVEN
	stage, err := NewPI(0.2, 0.1, DefaultLimits())
	assert.NoError(t, err)
	cascade, err := NewCascade(stage)
	assert.NoError(t, err)
	cascade.Update(1.0)

	// WHEN
	cascade.Reset()

	// THEN
	assert.Equal(t, 0.0, cascade.Output())
	assert.Equal(t, 0.0, stage.Output())
}
