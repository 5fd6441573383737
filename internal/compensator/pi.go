package compensator

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/util"
)

// PI is a proportional-integral compensator with back-calculation
// anti-windup: the difference between the saturated and the unsaturated
// output is fed back into the integral term, so the integrator unwinds
// as soon as the output saturates instead of accumulating further.
type PI struct {
	kp     float64
	ki     float64
	limits Limits

	// integrator storage ui(k-1)
	integral float64
	// saturation record u(k-1) - v(k-1)
	saturation float64
	out        float64
}

func NewPI(kp float64, ki float64, limits Limits) (*PI, error) {
	if !util.AllFinite(kp, ki) {
		return nil, fmt.Errorf("PI gains must be finite, got kp=%f ki=%f", kp, ki)
	}
	if err := limits.validate(); err != nil {
		return nil, err
	}
	return &PI{
		kp:     kp,
		ki:     ki,
		limits: limits,
	}, nil
}

func (c *PI) Update(err float64) float64 {
	proportional := c.kp * err
	integral := c.integral + c.ki*err + c.saturation

	presat := proportional + integral
	out := c.limits.clamp(presat)

	c.saturation = out - presat
	c.integral = integral
	c.out = out

	return out
}

func (c *PI) Output() float64 {
	return c.out
}

// IntegralTerm returns the current value of the integral term.
func (c *PI) IntegralTerm() float64 {
	return c.integral
}

func (c *PI) Reset() {
	c.integral = 0
	c.saturation = 0
	c.out = 0
}
