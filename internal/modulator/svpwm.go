package modulator

import (
	"fmt"
	"math"

	"github.com/grid2go/grid2go/internal/transform"
	"github.com/grid2go/grid2go/internal/util"
)

var sqrt3 = math.Sqrt(3)

// Duties holds the per-phase duty cycles of one switching period, each
// in [0, 1].
type Duties struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Result is the outcome of modulating one voltage reference.
type Result struct {
	Duties Duties `json:"duties"`
	// Sector is the 60° region of the voltage hexagon the reference
	// falls in, numbered 1 through 6 counterclockwise from the A
	// axis. It is 1 for the zero vector.
	Sector int `json:"sector"`
	// ModulationIndex is √3·|v|/vdc before any overmodulation
	// scaling.
	ModulationIndex float64 `json:"modulationIndex"`
	// Overmodulated is set when the reference left the linear range
	// and the active vector times were rescaled to fit.
	Overmodulated bool `json:"overmodulated"`
}

// SVPWM converts stationary-frame voltage references into switching
// duty cycles using space vector modulation with centered active
// vectors, which maximizes the usable DC bus compared to plain
// sinusoidal modulation.
type SVPWM struct {
	dcLinkVoltage float64
}

func NewSVPWM(dcLinkVoltage float64) (*SVPWM, error) {
	if !util.IsFinite(dcLinkVoltage) || dcLinkVoltage <= 0 {
		return nil, fmt.Errorf("dc link voltage must be positive and finite, got %f", dcLinkVoltage)
	}
	return &SVPWM{dcLinkVoltage: dcLinkVoltage}, nil
}

// sector locates the reference in the voltage hexagon from the signs
// of its projections onto the three sector boundary normals. A
// reference exactly on a boundary belongs to the lower-numbered
// adjacent sector, and the zero vector to sector 1.
func sector(v transform.AlphaBeta) int {
	b0 := v.Beta
	b1 := (sqrt3*v.Alpha - v.Beta) / 2
	b2 := (-sqrt3*v.Alpha - v.Beta) / 2

	switch {
	case b0 == 0 && b1 == 0 && b2 == 0:
		return 1
	case b0 == 0:
		if b1 > 0 {
			return 1
		}
		return 3
	case b1 == 0:
		if b0 > 0 {
			return 1
		}
		return 4
	case b2 == 0:
		if b0 > 0 {
			return 2
		}
		return 5
	}

	n := 0
	if b0 > 0 {
		n |= 1
	}
	if b1 > 0 {
		n |= 2
	}
	if b2 > 0 {
		n |= 4
	}
	// Sign pattern to sector, numbered counterclockwise.
	return map[int]int{3: 1, 1: 2, 5: 3, 4: 4, 6: 5, 2: 6}[n]
}

// Modulate computes the duty cycles that realize the given
// stationary-frame voltage reference over one switching period.
// References beyond the linear modulation range are scaled back onto
// the hexagon boundary. Non-finite references propagate into the
// duties like any other floating-point arithmetic.
func (m *SVPWM) Modulate(v transform.AlphaBeta) Result {
	magnitude := math.Hypot(v.Alpha, v.Beta)
	index := sqrt3 * magnitude / m.dcLinkVoltage
	sec := sector(v)

	if magnitude == 0 {
		return Result{
			Duties: Duties{A: 0.5, B: 0.5, C: 0.5},
			Sector: 1,
		}
	}

	// Angle within the sector, measured from its leading edge.
	theta := math.Atan2(v.Beta, v.Alpha) - float64(sec-1)*math.Pi/3
	sin1, cos1 := math.Sincos(theta)
	// t1 weights the sector's leading active vector, t2 the trailing
	// one.
	t1 := index * (sqrt3/2*cos1 - 0.5*sin1)
	t2 := index * sin1

	overmodulated := false
	if t1+t2 > 1 {
		scale := 1 / (t1 + t2)
		t1 *= scale
		t2 *= scale
		overmodulated = true
	}

	half := (1 - t1 - t2) / 2

	var duties Duties
	switch sec {
	case 1:
		duties = Duties{A: t1 + t2 + half, B: t2 + half, C: half}
	case 2:
		duties = Duties{A: t1 + half, B: t1 + t2 + half, C: half}
	case 3:
		duties = Duties{A: half, B: t1 + t2 + half, C: t2 + half}
	case 4:
		duties = Duties{A: half, B: t1 + half, C: t1 + t2 + half}
	case 5:
		duties = Duties{A: t2 + half, B: half, C: t1 + t2 + half}
	case 6:
		duties = Duties{A: t1 + t2 + half, B: half, C: t1 + half}
	default:
		// NaN reference, no sector resolves
		duties = Duties{A: half, B: half, C: half}
	}

	return Result{
		Duties:          duties,
		Sector:          sec,
		ModulationIndex: index,
		Overmodulated:   overmodulated,
	}
}

// DCLinkVoltage returns the configured DC bus voltage.
func (m *SVPWM) DCLinkVoltage() float64 {
	return m.dcLinkVoltage
}
