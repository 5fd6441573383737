package compensator

import (
	"fmt"

	"github.com/grid2go/grid2go/internal/util"
)

// PID is a proportional-integral-derivative compensator operating on a
// fixed tick period. The integral term is frozen while the output is
// saturated and the error keeps pushing in the saturated direction.
// The derivative acts on the error difference between ticks.
type PID struct {
	kp         float64
	ki         float64
	kd         float64
	tickPeriod float64
	limits     Limits

	integral float64
	lastErr  float64
	// derivative is skipped on the very first tick, there is no
	// previous error sample to difference against
	primed bool
	out    float64
}

func NewPID(kp float64, ki float64, kd float64, tickPeriod float64, limits Limits) (*PID, error) {
	if !util.AllFinite(kp, ki, kd) {
		return nil, fmt.Errorf("PID gains must be finite, got kp=%f ki=%f kd=%f", kp, ki, kd)
	}
	if !util.IsFinite(tickPeriod) || tickPeriod <= 0 {
		return nil, fmt.Errorf("PID tick period must be positive, got %f", tickPeriod)
	}
	if err := limits.validate(); err != nil {
		return nil, err
	}
	return &PID{
		kp:         kp,
		ki:         ki,
		kd:         kd,
		tickPeriod: tickPeriod,
		limits:     limits,
	}, nil
}

func (c *PID) Update(err float64) float64 {
	proportional := c.kp * err

	// don't integrate if the output is already saturated and the
	// error is trying to push it further
	integrate := true
	if c.out >= c.limits.Max && err > 0 {
		integrate = false
	}
	if c.out <= c.limits.Min && err < 0 {
		integrate = false
	}
	if integrate {
		c.integral += err * c.tickPeriod
	}
	integralTerm := c.ki * c.integral

	derivativeTerm := 0.0
	if c.primed {
		derivativeTerm = c.kd * (err - c.lastErr) / c.tickPeriod
	}

	out := c.limits.clamp(proportional + integralTerm + derivativeTerm)

	c.lastErr = err
	c.primed = true
	c.out = out

	return out
}

func (c *PID) Output() float64 {
	return c.out
}

func (c *PID) Reset() {
	c.integral = 0
	c.lastErr = 0
	c.primed = false
	c.out = 0
}
