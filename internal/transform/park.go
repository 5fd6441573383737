package transform

import "math"

// Park rotates αβ frame quantities into the dq frame aligned to the
// given angle (radians).
func Park(ab AlphaBeta, theta float64) DQ {
	sin, cos := math.Sincos(theta)
	return DQ{
		D:    ab.Alpha*cos + ab.Beta*sin,
		Q:    -ab.Alpha*sin + ab.Beta*cos,
		Zero: ab.Zero,
	}
}

// InversePark rotates dq frame quantities back into the stationary αβ
// frame using the given angle (radians).
func InversePark(dq DQ, theta float64) AlphaBeta {
	sin, cos := math.Sincos(theta)
	return AlphaBeta{
		Alpha: dq.D*cos - dq.Q*sin,
		Beta:  dq.D*sin + dq.Q*cos,
		Zero:  dq.Zero,
	}
}

// ClarkePark maps three-phase quantities directly into the dq frame.
// It is defined as the composition of Clarke and Park.
func ClarkePark(abc ThreePhase, theta float64) DQ {
	return Park(Clarke(abc), theta)
}

// InverseClarkePark maps dq frame quantities directly back to three
// phases. It is defined as the composition of InversePark and
// InverseClarke.
func InverseClarkePark(dq DQ, theta float64) ThreePhase {
	return InverseClarke(InversePark(dq, theta))
}
