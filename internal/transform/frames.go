package transform

// ThreePhase holds instantaneous three-phase (abc frame) quantities.
type ThreePhase struct {
	A float64
	B float64
	C float64
}

// AlphaBeta holds quantities in the stationary two-axis (αβ) frame,
// including the zero-sequence component.
type AlphaBeta struct {
	Alpha float64
	Beta  float64
	Zero  float64
}

// DQ holds quantities in the rotating two-axis (dq) frame, aligned to
// the angle that was used for the Park transform.
type DQ struct {
	D    float64
	Q    float64
	Zero float64
}
