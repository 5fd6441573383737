package configuration

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
)

func decodeHarmonics(t *testing.T, input interface{}) []EmulatorHarmonicConfig {
	t.Helper()

	var result []EmulatorHarmonicConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: harmonicsHookFunc(),
		Result:     &result,
	})
	assert.NoError(t, err)
	assert.NoError(t, decoder.Decode(input))
	return result
}

func TestHarmonicsHookDecodesCompactMapForm(t *testing.T) {
	// GIVEN the compact order-to-magnitude map form
	input := map[string]interface{}{
		"5": 0.02,
		"3": 0.05,
	}

	// WHEN
	result := decodeHarmonics(t, input)

	// THEN entries are sorted by order
	assert.Equal(t, []EmulatorHarmonicConfig{
		{Order: 3, Magnitude: 0.05},
		{Order: 5, Magnitude: 0.02},
	}, result)
}

func TestHarmonicsHookKeepsExplicitListForm(t *testing.T) {
	// GIVEN the explicit list form
	input := []interface{}{
		map[string]interface{}{"order": 3.0, "magnitude": 0.05, "angle": 0.1},
	}

	// WHEN
	result := decodeHarmonics(t, input)

	// THEN
	assert.Equal(t, []EmulatorHarmonicConfig{
		{Order: 3, Magnitude: 0.05, Angle: 0.1},
	}, result)
}

func TestHarmonicsHookRejectsInvalidOrder(t *testing.T) {
	// GIVEN
	var result []EmulatorHarmonicConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: harmonicsHookFunc(),
		Result:     &result,
	})
	assert.NoError(t, err)

	// WHEN
	err = decoder.Decode(map[string]interface{}{"third": 0.05})

	// THEN
	assert.Error(t, err)
}
