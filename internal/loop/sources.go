package loop

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/configuration"
	"github.com/grid2go/grid2go/internal/emulator"
	"github.com/grid2go/grid2go/internal/transform"
)

// NewSource instantiates the source described by the given definition,
// sampled at the owning loop's tick rate. Sources are never shared
// between loops, each loop steps its own instance.
func NewSource(config configuration.SourceConfig, sampleRate float64) (Source, error) {
	if config.Emulator != nil {
		var harmonics []emulator.Harmonic
		for _, h := range config.Emulator.Harmonics {
			harmonics = append(harmonics, emulator.Harmonic{
				Order:     h.Order,
				Magnitude: h.Magnitude,
				Angle:     h.Angle,
			})
		}

		emu, err := emulator.NewThreePhase(emulator.Config{
			NominalFrequency: config.Emulator.NominalFrequency,
			SampleRate:       sampleRate,
			Magnitude:        config.Emulator.Magnitude,
			PhaseOffset:      config.Emulator.PhaseOffset,
			Harmonics:        harmonics,
			NoiseMagnitude:   config.Emulator.NoiseMagnitude,
			Seed:             config.Emulator.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", config.ID, err)
		}
		return &emulatorSource{id: config.ID, emulator: emu}, nil
	}

	return nil, fmt.Errorf("no matching source type for source: %s", config.ID)
}

type emulatorSource struct {
	id       string
	emulator *emulator.ThreePhase
}

func (s *emulatorSource) GetId() string {
	return s.id
}

func (s *emulatorSource) Step() transform.ThreePhase {
	return s.emulator.Step()
}

func (s *emulatorSource) Reset() {
	s.emulator.Reset()
}
