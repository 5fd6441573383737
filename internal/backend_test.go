package internal

import (
	"testing"

	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func buildTestConfiguration() configuration.Configuration {
	return configuration.Configuration{
		Sources: []configuration.SourceConfig{
			{
				ID: "grid",
				Emulator: &configuration.EmulatorSourceConfig{
					NominalFrequency: 50,
					Magnitude:        325,
				},
			},
		},
		Compensators: []configuration.CompensatorConfig{
			{
				ID: "current-d",
				PI: &configuration.PIConfig{Kp: 0.5, Ki: 10},
			},
			{
				ID: "current-q",
				PI: &configuration.PIConfig{Kp: 0.5, Ki: 10},
			},
		},
		Loops: []configuration.LoopConfig{
			{
				ID:            "inverter",
				Source:        "grid",
				TickRate:      10000,
				DCLinkVoltage: 800,
				DCompensator:  "current-d",
				QCompensator:  "current-q",
				Pll: configuration.PllConfig{
					NominalFrequency: 50,
					Kp:               88,
					Ki:               3947,
					FrequencyBand:    10,
				},
			},
		},
	}
}

func TestBuildLoops(t *testing.T) {
	// GIVEN
	config := buildTestConfiguration()

	// WHEN
	loops, err := BuildLoops(config)

	// THEN
	assert.NoError(t, err)
	assert.Len(t, loops, 1)
	assert.Equal(t, "inverter", loops[0].GetId())
}

func TestBuildLoopsUnknownSource(t *testing.T) {
	// GIVEN
	config := buildTestConfiguration()
	config.Loops[0].Source = "missing"

	// WHEN
	loops, err := BuildLoops(config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, loops)
}

func TestBuildLoopsUnknownCompensator(t *testing.T) {
	// GIVEN
	config := buildTestConfiguration()
	config.Loops[0].DCompensator = "missing"

	// WHEN
	loops, err := BuildLoops(config)

	// THEN
	assert.Error(t, err)
	assert.Nil(t, loops)
}

func TestBuildLoopsProducesRunnableLoops(t *testing.T) {
	// GIVEN
	loops, err := BuildLoops(buildTestConfiguration())
	assert.NoError(t, err)

	// WHEN
	snapshot := loops[0].Step()

	// THEN
	assert.Equal(t, uint64(1), snapshot.Tick)
}
