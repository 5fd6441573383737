package compensator

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/util"
)

// TwoPoleTwoZeroCoefficients holds the gains of a 2p2z direct-form
// recurrence:
//
//	u(k) = B0*e(k) + B1*e(k-1) + B2*e(k-2) + A1*u(k-1) + A2*u(k-2)
//
// The coefficients are derived offline from analog pole/zero placement
// and the sample rate; this package only evaluates the recurrence.
type TwoPoleTwoZeroCoefficients struct {
	B0 float64
	B1 float64
	B2 float64
	A1 float64
	A2 float64
}

func (c TwoPoleTwoZeroCoefficients) validate() error {
	if !util.AllFinite(c.B0, c.B1, c.B2, c.A1, c.A2) {
		return fmt.Errorf("2p2z coefficients must be finite: %+v", c)
	}
	return nil
}

// TwoPoleTwoZero is a two-pole two-zero digital compensator.
// The output history stores the saturated output, so the recurrence
// never accumulates actuation that was not actually applied.
type TwoPoleTwoZero struct {
	coefficients TwoPoleTwoZeroCoefficients
	limits       Limits

	// last two error samples, most recent first
	errHist [2]float64
	// last two (saturated) outputs, most recent first
	outHist [2]float64
	out     float64
}

func NewTwoPoleTwoZero(coefficients TwoPoleTwoZeroCoefficients, limits Limits) (*TwoPoleTwoZero, error) {
	if err := coefficients.validate(); err != nil {
		return nil, err
	}
	if err := limits.validate(); err != nil {
		return nil, err
	}
	return &TwoPoleTwoZero{
		coefficients: coefficients,
		limits:       limits,
	}, nil
}

func (c *TwoPoleTwoZero) Update(err float64) float64 {
	k := c.coefficients

	out := k.B0*err +
		k.B1*c.errHist[0] +
		k.B2*c.errHist[1] +
		k.A1*c.outHist[0] +
		k.A2*c.outHist[1]

	out = c.limits.clamp(out)

	c.errHist[1] = c.errHist[0]
	c.errHist[0] = err
	c.outHist[1] = c.outHist[0]
	c.outHist[0] = out
	c.out = out

	return out
}

func (c *TwoPoleTwoZero) Output() float64 {
	return c.out
}

func (c *TwoPoleTwoZero) Reset() {
	c.errHist = [2]float64{}
	c.outHist = [2]float64{}
	c.out = 0
}
