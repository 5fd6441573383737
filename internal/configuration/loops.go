package configuration

type LoopConfig struct {
	ID string `json:"id"`

	// Source references a source definition providing the three phase
	// input signal.
	Source string `json:"source"`

	// TickRate is the control loop rate in Hz.
	TickRate float64 `json:"tickRate"`

	// DCLinkVoltage feeds the modulator.
	DCLinkVoltage float64 `json:"dcLinkVoltage"`

	// DReference and QReference are the rotating frame setpoints.
	DReference float64 `json:"dReference"`
	QReference float64 `json:"qReference"`

	// DCompensator and QCompensator reference compensator definitions
	// for the two rotating frame axes.
	DCompensator string `json:"dCompensator"`
	QCompensator string `json:"qCompensator"`

	Pll PllConfig `json:"pll"`

	// TraceDepth is the number of tick snapshots kept in memory and
	// flushed to the trace store. Zero disables tracing.
	TraceDepth int `json:"traceDepth"`
}

type PllConfig struct {
	// NominalFrequency is the expected grid frequency in Hz.
	NominalFrequency float64 `json:"nominalFrequency"`
	// SogiGain is the SOGI damping gain. Zero selects the default.
	SogiGain float64 `json:"sogiGain"`
	Kp       float64 `json:"kp"`
	Ki       float64 `json:"ki"`
	// FrequencyBand limits the estimate to nominal ± band (Hz).
	FrequencyBand float64 `json:"frequencyBand"`

	Notch *NotchFilterConfig `json:"notch,omitempty"`
}

type NotchFilterConfig struct {
	Frequency float64 `json:"frequency"`
	Quality   float64 `json:"quality"`
}
