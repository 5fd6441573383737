package pll

import (
	"fmt"
	"math"
)

// notchBiquad is a second-order notch filter in transposed direct
// form II. It rejects a narrow band around its center frequency and
// passes everything else with close to unit gain, which keeps the
// phase it adds near the grid fundamental small when the center sits
// at a harmonic.
type notchBiquad struct {
	b0, b1, b2 float64
	a1, a2     float64

	z1, z2 float64
}

// designNotch computes biquad coefficients for a notch centered at
// frequency (Hz) with the given quality factor, sampled at sampleRate.
// The center must be below the Nyquist frequency.
func designNotch(frequency float64, quality float64, sampleRate float64) (*notchBiquad, error) {
	if frequency <= 0 || quality <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("notch parameters must be positive: frequency %f, quality %f, sampleRate %f", frequency, quality, sampleRate)
	}
	if frequency >= sampleRate/2 {
		return nil, fmt.Errorf("notch frequency %f Hz is at or above the Nyquist frequency %f Hz", frequency, sampleRate/2)
	}

	omega := 2 * math.Pi * frequency / sampleRate
	sin, cos := math.Sincos(omega)
	alpha := sin / (2 * quality)

	a0 := 1 + alpha
	return &notchBiquad{
		b0: 1 / a0,
		b1: -2 * cos / a0,
		b2: 1 / a0,
		a1: -2 * cos / a0,
		a2: (1 - alpha) / a0,
	}, nil
}

func (n *notchBiquad) Update(input float64) float64 {
	output := n.b0*input + n.z1
	n.z1 = n.b1*input - n.a1*output + n.z2
	n.z2 = n.b2*input - n.a2*output
	return output
}

func (n *notchBiquad) Reset() {
	n.z1 = 0
	n.z2 = 0
}
