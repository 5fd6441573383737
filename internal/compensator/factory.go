package compensator

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/configuration"
)

// Build constructs a fresh compensator instance for the definition
// with the given id, recursively instantiating cascade stages. Every
// caller gets its own instances, state is never shared between loops.
func Build(id string, configs []configuration.CompensatorConfig, tickPeriod float64) (Compensator, error) {
	return build(id, configs, tickPeriod, map[string]bool{})
}

func build(id string, configs []configuration.CompensatorConfig, tickPeriod float64, visited map[string]bool) (Compensator, error) {
	if visited[id] {
		return nil, fmt.Errorf("compensator %s: definition references itself", id)
	}
	visited[id] = true
	defer delete(visited, id)

	config, err := findConfig(id, configs)
	if err != nil {
		return nil, err
	}

	switch {
	case config.TwoPoleTwoZero != nil:
		c := config.TwoPoleTwoZero
		return NewTwoPoleTwoZero(TwoPoleTwoZeroCoefficients{
			B0: c.B0, B1: c.B1, B2: c.B2,
			A1: c.A1, A2: c.A2,
		}, limitsFromConfig(c.Limits))
	case config.ThreePoleThreeZero != nil:
		c := config.ThreePoleThreeZero
		return NewThreePoleThreeZero(ThreePoleThreeZeroCoefficients{
			B0: c.B0, B1: c.B1, B2: c.B2, B3: c.B3,
			A1: c.A1, A2: c.A2, A3: c.A3,
		}, limitsFromConfig(c.Limits))
	case config.PI != nil:
		return NewPI(config.PI.Kp, config.PI.Ki, limitsFromConfig(config.PI.Limits))
	case config.PID != nil:
		return NewPID(config.PID.Kp, config.PID.Ki, config.PID.Kd, tickPeriod, limitsFromConfig(config.PID.Limits))
	case config.Cascade != nil:
		var stages []Compensator
		for _, stageId := range config.Cascade.Stages {
			stage, err := build(stageId, configs, tickPeriod, visited)
			if err != nil {
				return nil, err
			}
			stages = append(stages, stage)
		}
		return NewCascade(stages...)
	}

	return nil, fmt.Errorf("no matching compensator type for compensator: %s", id)
}

func findConfig(id string, configs []configuration.CompensatorConfig) (configuration.CompensatorConfig, error) {
	for _, config := range configs {
		if config.ID == id {
			return config, nil
		}
	}
	return configuration.CompensatorConfig{}, fmt.Errorf("no compensator definition with id '%s' found", id)
}

func limitsFromConfig(config *configuration.LimitsConfig) Limits {
	if config == nil {
		return DefaultLimits()
	}
	return Limits{Min: config.Min, Max: config.Max}
}
