package transform

import "math"

// The Clarke transform implemented here uses the amplitude-invariant
// convention: a balanced three-phase set of amplitude A maps to an αβ
// vector of magnitude A. The inverse is the exact algebraic inverse,
// so Clarke followed by InverseClarke reproduces the input up to
// floating point rounding.

var sqrt3 = math.Sqrt(3)

// Clarke maps three-phase quantities to the stationary αβ frame.
func Clarke(abc ThreePhase) AlphaBeta {
	return AlphaBeta{
		Alpha: (2*abc.A - abc.B - abc.C) / 3,
		Beta:  (abc.B - abc.C) / sqrt3,
		Zero:  (abc.A + abc.B + abc.C) / 3,
	}
}

// InverseClarke maps αβ frame quantities back to three phases.
func InverseClarke(ab AlphaBeta) ThreePhase {
	halfBeta := (sqrt3 / 2) * ab.Beta
	return ThreePhase{
		A: ab.Alpha + ab.Zero,
		B: -ab.Alpha/2 + halfBeta + ab.Zero,
		C: -ab.Alpha/2 - halfBeta + ab.Zero,
	}
}
