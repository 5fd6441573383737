package pll

// SOGI is a second-order generalized integrator. Driven with a
// periodic input and the angular frequency it should resonate at, it
// produces an in-phase estimate of the input's fundamental and a
// quadrature signal of equal amplitude lagging it by 90°.
//
// The recurrence is a forward-Euler discretization of
//
//	x1' = k*ω*(u - x1) - ω*x2
//	x2' = ω*x1
//
// with x1 the in-phase and x2 the quadrature state. The gain k sets
// the damping, √2 gives the usual critically damped response.
type SOGI struct {
	gain       float64
	tickPeriod float64

	inPhase    float64
	quadrature float64
}

func NewSOGI(gain float64, tickPeriod float64) *SOGI {
	return &SOGI{
		gain:       gain,
		tickPeriod: tickPeriod,
	}
}

// Update advances the integrators by one tick with the given input
// sample and resonant angular frequency (rad/s).
func (s *SOGI) Update(input float64, omega float64) (inPhase float64, quadrature float64) {
	x1 := s.inPhase + s.tickPeriod*(s.gain*omega*(input-s.inPhase)-omega*s.quadrature)
	x2 := s.quadrature + s.tickPeriod*omega*s.inPhase

	s.inPhase = x1
	s.quadrature = x2

	return x1, x2
}

func (s *SOGI) Reset() {
	s.inPhase = 0
	s.quadrature = 0
}
