// audio_filter.go - Fixed biquad shaping filters for beat tones

package main

// Both sections are second order Butterworth filters generated with
// mkfilter (A.J. Fisher) for the 48 kHz engine rate. The history registers
// re-initialize to zero on every call; applying a filter twice attenuates
// the band edges further, it is not a no-op.

// HighpassTwentyHz removes DC and sub-audible content in place. Without it
// the summed harmonics can bias the perceived click.
func (sig *AudioSignal) HighpassTwentyHz() {
	const gain = 1.001852916

	var xv, yv [3]float64
	for i, sample := range sig.Samples {
		xv[0], xv[1] = xv[1], xv[2]
		xv[2] = float64(sample) / gain
		yv[0], yv[1] = yv[1], yv[2]
		yv[2] = (xv[0] + xv[2]) - 2.0*xv[1] + (-0.9963044430 * yv[0]) + (1.9962976018 * yv[1])
		sig.Samples[i] = float32(yv[2])
	}
}

// LowpassTwentyKilohertz removes content above the audible range that the
// abrupt harmonic summation introduces, in place.
func (sig *AudioSignal) LowpassTwentyKilohertz() {
	const gain = 1.450734152

	var xv, yv [3]float64
	for i, sample := range sig.Samples {
		xv[0], xv[1] = xv[1], xv[2]
		xv[2] = float64(sample) / gain
		yv[0], yv[1] = yv[1], yv[2]
		yv[2] = (xv[0] + xv[2]) + 2.0*xv[1] + (-0.4775922501 * yv[0]) + (-1.2796324250 * yv[1])
		sig.Samples[i] = float32(yv[2])
	}
}

// ApplyFilterChain runs the full shaping chain: high-pass then low-pass.
func (sig *AudioSignal) ApplyFilterChain() {
	sig.HighpassTwentyHz()
	sig.LowpassTwentyKilohertz()
}
