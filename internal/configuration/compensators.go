package configuration

type CompensatorConfig struct {
	ID string `json:"id"`

	TwoPoleTwoZero     *TwoPoleTwoZeroConfig     `json:"twoPoleTwoZero,omitempty"`
	ThreePoleThreeZero *ThreePoleThreeZeroConfig `json:"threePoleThreeZero,omitempty"`
	PI                 *PIConfig                 `json:"pi,omitempty"`
	PID                *PIDConfig                `json:"pid,omitempty"`
	Cascade            *CascadeConfig            `json:"cascade,omitempty"`
}

// LimitsConfig bounds a compensator output. Zero values select the
// unbounded default.
type LimitsConfig struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type TwoPoleTwoZeroConfig struct {
	B0 float64 `json:"b0"`
	B1 float64 `json:"b1"`
	B2 float64 `json:"b2"`
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`

	Limits *LimitsConfig `json:"limits,omitempty"`
}

type ThreePoleThreeZeroConfig struct {
	B0 float64 `json:"b0"`
	B1 float64 `json:"b1"`
	B2 float64 `json:"b2"`
	B3 float64 `json:"b3"`
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`
	A3 float64 `json:"a3"`

	Limits *LimitsConfig `json:"limits,omitempty"`
}

type PIConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`

	Limits *LimitsConfig `json:"limits,omitempty"`
}

type PIDConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	Limits *LimitsConfig `json:"limits,omitempty"`
}

// CascadeConfig chains other compensator definitions in series.
type CascadeConfig struct {
	Stages []string `json:"stages"`
}
