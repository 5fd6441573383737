package configuration

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// harmonicsHookFunc returns a mapstructure decode hook that accepts a
// compact map form for harmonic definitions, a mapping of harmonic
// order to relative magnitude:
//
//	harmonics:
//	  3: 0.05
//	  5: 0.02
//
// next to the explicit list form with order/magnitude/angle entries.
func harmonicsHookFunc() mapstructure.DecodeHookFuncType {
	harmonicsType := reflect.TypeOf([]EmulatorHarmonicConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != harmonicsType {
			return data, nil
		}

		switch v := data.(type) {
		case map[string]interface{}:
			return parseHarmonicMap(v)
		case map[interface{}]interface{}:
			converted := map[string]interface{}{}
			for key, value := range v {
				converted[fmt.Sprintf("%v", key)] = value
			}
			return parseHarmonicMap(converted)
		}

		return data, nil
	}
}

func parseHarmonicMap(data map[string]interface{}) ([]EmulatorHarmonicConfig, error) {
	var harmonics []EmulatorHarmonicConfig
	for key, value := range data {
		order, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid harmonic order %q: %w", key, err)
		}
		magnitude, err := anyToFloat(value)
		if err != nil {
			return nil, fmt.Errorf("invalid harmonic magnitude for order %q: %w", key, err)
		}
		harmonics = append(harmonics, EmulatorHarmonicConfig{
			Order:     order,
			Magnitude: magnitude,
		})
	}

	sort.Slice(harmonics, func(i, j int) bool {
		return harmonics[i].Order < harmonics[j].Order
	})
	return harmonics, nil
}

func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
