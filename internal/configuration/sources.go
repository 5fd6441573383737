package configuration

type SourceConfig struct {
	ID string `json:"id"`

	Emulator *EmulatorSourceConfig `json:"emulator,omitempty"`
}

type EmulatorHarmonicConfig struct {
	Order     float64 `json:"order"`
	Magnitude float64 `json:"magnitude"`
	Angle     float64 `json:"angle"`
}

type EmulatorSourceConfig struct {
	// NominalFrequency of the generated fundamental in Hz.
	NominalFrequency float64 `json:"nominalFrequency"`
	// Magnitude is the peak value of the fundamental.
	Magnitude float64 `json:"magnitude"`
	// PhaseOffset shifts all phases by the given angle (rad).
	PhaseOffset float64 `json:"phaseOffset"`

	Harmonics []EmulatorHarmonicConfig `json:"harmonics,omitempty"`

	// NoiseMagnitude is the standard deviation of Gaussian noise
	// relative to Magnitude.
	NoiseMagnitude float64 `json:"noiseMagnitude"`
	// Seed makes the noise deterministic when nonzero.
	Seed int64 `json:"seed,omitempty"`
}
