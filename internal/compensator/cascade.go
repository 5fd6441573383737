package compensator

import "fmt"

// Cascade runs multiple compensators in series, the output of each
// stage feeding the next. Higher-order responses are usually built
// this way from 2p2z sections instead of one large recurrence, which
// keeps each section numerically well conditioned.
type Cascade struct {
	stages []Compensator
	out    float64
}

func NewCascade(stages ...Compensator) (*Cascade, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("cascade needs at least one stage")
	}
	return &Cascade{stages: stages}, nil
}

func (c *Cascade) Update(err float64) float64 {
	value := err
	for _, stage := range c.stages {
		value = stage.Update(value)
	}
	c.out = value
	return value
}

func (c *Cascade) Output() float64 {
	return c.out
}

func (c *Cascade) Reset() {
	for _, stage := range c.stages {
		stage.Reset()
	}
	c.out = 0
}
