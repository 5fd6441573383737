package compensator

import (
	"fmt"
	"math"

	"github.com/grid2go/grid2go/internal/util"
)

// Compensator maps one error sample to one control output per tick.
// Implementations own a fixed amount of recurrence state and must be
// advanced exactly once per control tick. Instances are not safe for
// concurrent use, callers serialize ticks per instance.
type Compensator interface {
	// Update advances the compensator by one tick and returns the
	// new (saturated) control output
	Update(err float64) float64

	// Output returns the most recent control output without
	// advancing the compensator
	Output() float64

	// Reset clears all recurrence state
	Reset()
}

// Limits is the output saturation range applied by every compensator.
type Limits struct {
	Min float64
	Max float64
}

// DefaultLimits returns a limit configuration that never saturates.
func DefaultLimits() Limits {
	return Limits{Min: -math.MaxFloat64, Max: math.MaxFloat64}
}

func (l Limits) validate() error {
	if !util.AllFinite(l.Min, l.Max) {
		return fmt.Errorf("limits must be finite, got [%f, %f]", l.Min, l.Max)
	}
	if l.Min >= l.Max {
		return fmt.Errorf("limit min must be below max, got [%f, %f]", l.Min, l.Max)
	}
	return nil
}

func (l Limits) clamp(value float64) float64 {
	return util.Coerce(value, l.Min, l.Max)
}
