package configuration

import (
	"errors"
	"fmt"

	"github.com/grid2go/grid2go/internal/ui"
	"github.com/grid2go/grid2go/internal/util"
	"github.com/looplab/tarjan"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateUniqueIds(config)
	if err != nil {
		return err
	}
	err = validateSources(config)
	if err != nil {
		return err
	}
	err = validateCompensators(config)
	if err != nil {
		return err
	}
	return validateLoops(config)
}

func validateUniqueIds(config *Configuration) error {
	seenSources := map[string]bool{}
	for _, sourceConfig := range config.Sources {
		if seenSources[sourceConfig.ID] {
			return errors.New(fmt.Sprintf("duplicate source id detected: %s", sourceConfig.ID))
		}
		seenSources[sourceConfig.ID] = true
	}

	seenCompensators := map[string]bool{}
	for _, compensatorConfig := range config.Compensators {
		if seenCompensators[compensatorConfig.ID] {
			return errors.New(fmt.Sprintf("duplicate compensator id detected: %s", compensatorConfig.ID))
		}
		seenCompensators[compensatorConfig.ID] = true
	}

	seenLoops := map[string]bool{}
	for _, loopConfig := range config.Loops {
		if seenLoops[loopConfig.ID] {
			return errors.New(fmt.Sprintf("duplicate loop id detected: %s", loopConfig.ID))
		}
		seenLoops[loopConfig.ID] = true
	}

	return nil
}

func validateSources(config *Configuration) error {
	for _, sourceConfig := range config.Sources {
		subConfigs := 0
		if sourceConfig.Emulator != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return errors.New(fmt.Sprintf("Source %s: only one source type can be used per source definition block", sourceConfig.ID))
		}
		if subConfigs <= 0 {
			return errors.New(fmt.Sprintf("Source %s: sub-configuration for source is missing, use: emulator", sourceConfig.ID))
		}

		if !isSourceConfigInUse(sourceConfig, config.Loops) {
			ui.Warning("Unused source configuration: %s", sourceConfig.ID)
		}

		if sourceConfig.Emulator != nil {
			e := sourceConfig.Emulator
			if e.NominalFrequency <= 0 {
				return errors.New(fmt.Sprintf("Source %s: nominal frequency must be positive", sourceConfig.ID))
			}
			if e.Magnitude <= 0 || !util.IsFinite(e.Magnitude) {
				return errors.New(fmt.Sprintf("Source %s: magnitude must be positive and finite", sourceConfig.ID))
			}
			if e.NoiseMagnitude < 0 {
				return errors.New(fmt.Sprintf("Source %s: noise magnitude must not be negative", sourceConfig.ID))
			}
			for _, h := range e.Harmonics {
				if h.Order <= 1 || h.Magnitude < 0 {
					return errors.New(fmt.Sprintf("Source %s: invalid harmonic definition (order %f)", sourceConfig.ID, h.Order))
				}
			}
		}
	}

	return nil
}

func isSourceConfigInUse(config SourceConfig, loops []LoopConfig) bool {
	for _, loopConfig := range loops {
		if loopConfig.Source == config.ID {
			return true
		}
	}
	return false
}

func validateCompensators(config *Configuration) error {
	graph := make(map[interface{}][]interface{})

	for _, compensatorConfig := range config.Compensators {
		subConfigs := 0
		if compensatorConfig.TwoPoleTwoZero != nil {
			subConfigs++
		}
		if compensatorConfig.ThreePoleThreeZero != nil {
			subConfigs++
		}
		if compensatorConfig.PI != nil {
			subConfigs++
		}
		if compensatorConfig.PID != nil {
			subConfigs++
		}
		if compensatorConfig.Cascade != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return errors.New(fmt.Sprintf("Compensator %s: only one compensator type can be used per compensator definition block", compensatorConfig.ID))
		}
		if subConfigs <= 0 {
			return errors.New(fmt.Sprintf("Compensator %s: sub-configuration for compensator is missing, use one of: twoPoleTwoZero | threePoleThreeZero | pi | pid | cascade", compensatorConfig.ID))
		}

		if !isCompensatorConfigInUse(compensatorConfig, config.Compensators, config.Loops) {
			ui.Warning("Unused compensator configuration: %s", compensatorConfig.ID)
		}

		if err := validateCompensatorGains(compensatorConfig); err != nil {
			return err
		}

		if compensatorConfig.Cascade != nil {
			if len(compensatorConfig.Cascade.Stages) <= 0 {
				return errors.New(fmt.Sprintf("Compensator %s: cascade needs at least one stage", compensatorConfig.ID))
			}

			var connections []interface{}
			for _, stage := range compensatorConfig.Cascade.Stages {
				if stage == compensatorConfig.ID {
					return errors.New(fmt.Sprintf("Compensator %s: a cascade cannot reference itself", compensatorConfig.ID))
				}
				if !compensatorIdExists(stage, config) {
					return errors.New(fmt.Sprintf("Compensator %s: no compensator definition with id '%s' found", compensatorConfig.ID, stage))
				}
				connections = append(connections, stage)
			}
			graph[compensatorConfig.ID] = connections
		}
	}

	return validateNoCycles(graph)
}

func validateCompensatorGains(config CompensatorConfig) error {
	var values []float64
	var limits *LimitsConfig

	switch {
	case config.TwoPoleTwoZero != nil:
		c := config.TwoPoleTwoZero
		values = []float64{c.B0, c.B1, c.B2, c.A1, c.A2}
		limits = c.Limits
	case config.ThreePoleThreeZero != nil:
		c := config.ThreePoleThreeZero
		values = []float64{c.B0, c.B1, c.B2, c.B3, c.A1, c.A2, c.A3}
		limits = c.Limits
	case config.PI != nil:
		values = []float64{config.PI.Kp, config.PI.Ki}
		limits = config.PI.Limits
	case config.PID != nil:
		values = []float64{config.PID.Kp, config.PID.Ki, config.PID.Kd}
		limits = config.PID.Limits
	}

	if !util.AllFinite(values...) {
		return errors.New(fmt.Sprintf("Compensator %s: coefficients must be finite", config.ID))
	}
	if limits != nil && limits.Min >= limits.Max {
		return errors.New(fmt.Sprintf("Compensator %s: limits min must be below max", config.ID))
	}
	return nil
}

func isCompensatorConfigInUse(config CompensatorConfig, compensators []CompensatorConfig, loops []LoopConfig) bool {
	for _, compensatorConfig := range compensators {
		if compensatorConfig.Cascade != nil {
			if slices.Contains(compensatorConfig.Cascade.Stages, config.ID) {
				return true
			}
		}
	}

	for _, loopConfig := range loops {
		if loopConfig.DCompensator == config.ID || loopConfig.QCompensator == config.ID {
			return true
		}
	}

	return false
}

func compensatorIdExists(compensatorId string, config *Configuration) bool {
	for _, compensatorConfig := range config.Compensators {
		if compensatorConfig.ID == compensatorId {
			return true
		}
	}
	return false
}

func sourceIdExists(sourceId string, config *Configuration) bool {
	for _, sourceConfig := range config.Sources {
		if sourceConfig.ID == sourceId {
			return true
		}
	}
	return false
}

func validateNoCycles(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return errors.New(fmt.Sprintf("You have created a compensator dependency cycle: %v", items))
		}
	}
	return nil
}

func validateLoops(config *Configuration) error {
	for _, loopConfig := range config.Loops {
		if loopConfig.TickRate <= 0 {
			return errors.New(fmt.Sprintf("Loop %s: tick rate must be positive", loopConfig.ID))
		}
		if loopConfig.DCLinkVoltage <= 0 {
			return errors.New(fmt.Sprintf("Loop %s: dc link voltage must be positive", loopConfig.ID))
		}
		if !util.AllFinite(loopConfig.DReference, loopConfig.QReference) {
			return errors.New(fmt.Sprintf("Loop %s: references must be finite", loopConfig.ID))
		}

		if len(loopConfig.Source) <= 0 {
			return errors.New(fmt.Sprintf("Loop %s: missing source definition in configuration entry", loopConfig.ID))
		}
		if !sourceIdExists(loopConfig.Source, config) {
			return errors.New(fmt.Sprintf("Loop %s: no source definition with id '%s' found", loopConfig.ID, loopConfig.Source))
		}

		for _, compensatorId := range []string{loopConfig.DCompensator, loopConfig.QCompensator} {
			if len(compensatorId) <= 0 {
				return errors.New(fmt.Sprintf("Loop %s: missing compensator definition in configuration entry", loopConfig.ID))
			}
			if !compensatorIdExists(compensatorId, config) {
				return errors.New(fmt.Sprintf("Loop %s: no compensator definition with id '%s' found", loopConfig.ID, compensatorId))
			}
		}

		pllConfig := loopConfig.Pll
		if pllConfig.NominalFrequency <= 0 {
			return errors.New(fmt.Sprintf("Loop %s: pll nominal frequency must be positive", loopConfig.ID))
		}
		if loopConfig.TickRate <= 2*pllConfig.NominalFrequency {
			return errors.New(fmt.Sprintf("Loop %s: tick rate is too low for a %f Hz fundamental", loopConfig.ID, pllConfig.NominalFrequency))
		}
		if pllConfig.FrequencyBand <= 0 || pllConfig.FrequencyBand >= pllConfig.NominalFrequency {
			return errors.New(fmt.Sprintf("Loop %s: pll frequency band must be positive and below the nominal frequency", loopConfig.ID))
		}
		if !util.AllFinite(pllConfig.Kp, pllConfig.Ki, pllConfig.SogiGain) {
			return errors.New(fmt.Sprintf("Loop %s: pll gains must be finite", loopConfig.ID))
		}
		if pllConfig.Notch != nil {
			if pllConfig.Notch.Frequency <= 0 || pllConfig.Notch.Quality <= 0 {
				return errors.New(fmt.Sprintf("Loop %s: notch frequency and quality must be positive", loopConfig.ID))
			}
			if pllConfig.Notch.Frequency >= loopConfig.TickRate/2 {
				return errors.New(fmt.Sprintf("Loop %s: notch frequency is at or above the nyquist frequency", loopConfig.ID))
			}
		}

		if loopConfig.TraceDepth < 0 {
			return errors.New(fmt.Sprintf("Loop %s: trace depth must not be negative", loopConfig.ID))
		}
	}

	return nil
}
