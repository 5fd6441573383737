package compensator

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/util"
)

// ThreePoleThreeZeroCoefficients holds the gains of a 3p3z direct-form
// recurrence:
//
//	u(k) = B0*e(k) + B1*e(k-1) + B2*e(k-2) + B3*e(k-3)
//	     + A1*u(k-1) + A2*u(k-2) + A3*u(k-3)
type ThreePoleThreeZeroCoefficients struct {
	B0 float64
	B1 float64
	B2 float64
	B3 float64
	A1 float64
	A2 float64
	A3 float64
}

func (c ThreePoleThreeZeroCoefficients) validate() error {
	if !util.AllFinite(c.B0, c.B1, c.B2, c.B3, c.A1, c.A2, c.A3) {
		return fmt.Errorf("3p3z coefficients must be finite: %+v", c)
	}
	return nil
}

// ThreePoleThreeZero is a three-pole three-zero digital compensator,
// used where the plant needs more phase shaping than a 2p2z can give
// (grid-tied inverters, multi-loop converters).
type ThreePoleThreeZero struct {
	coefficients ThreePoleThreeZeroCoefficients
	limits       Limits

	errHist [3]float64
	outHist [3]float64
	out     float64
}

func NewThreePoleThreeZero(coefficients ThreePoleThreeZeroCoefficients, limits Limits) (*ThreePoleThreeZero, error) {
	if err := coefficients.validate(); err != nil {
		return nil, err
	}
	if err := limits.validate(); err != nil {
		return nil, err
	}
	return &ThreePoleThreeZero{
		coefficients: coefficients,
		limits:       limits,
	}, nil
}

func (c *ThreePoleThreeZero) Update(err float64) float64 {
	k := c.coefficients

	out := k.B0*err +
		k.B1*c.errHist[0] +
		k.B2*c.errHist[1] +
		k.B3*c.errHist[2] +
		k.A1*c.outHist[0] +
		k.A2*c.outHist[1] +
		k.A3*c.outHist[2]

	out = c.limits.clamp(out)

	c.errHist[2] = c.errHist[1]
	c.errHist[1] = c.errHist[0]
	c.errHist[0] = err
	c.outHist[2] = c.outHist[1]
	c.outHist[1] = c.outHist[0]
	c.outHist[0] = out
	c.out = out

	return out
}

func (c *ThreePoleThreeZero) Output() float64 {
	return c.out
}

func (c *ThreePoleThreeZero) Reset() {
	c.errHist = [3]float64{}
	c.outHist = [3]float64{}
	c.out = 0
}
