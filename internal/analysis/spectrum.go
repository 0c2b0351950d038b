package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrShortSignal = errors.New("analysis: signal too short")
	ErrNoPeriod    = errors.New("analysis: no periodic component found")
)

// PowerSpectrum returns the magnitude of the first n/2 bins of the
// Hann-windowed FFT of signal. The mean is removed first.
func PowerSpectrum(signal []float64) []float64 {
	n := len(signal)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range signal {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin of signal sampled every dt, refined by parabolic interpolation.
func DominantFrequency(signal []float64, dt float64) (float64, error) {
	if len(signal) < 4 {
		return 0, ErrShortSignal
	}
	ps := PowerSpectrum(signal)

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if ps[peak] == 0 {
		return 0, ErrNoPeriod
	}

	offset := 0.0
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	return (float64(peak) + offset) / (float64(len(signal)) * dt), nil
}

// CrossingPeriod is the mean spacing of upward crossings of level, each
// located by linear interpolation between samples.
func CrossingPeriod(times, signal []float64, level float64) (float64, error) {
	if len(times) != len(signal) || len(signal) < 3 {
		return 0, ErrShortSignal
	}

	var crossings []float64
	for i := 1; i < len(signal); i++ {
		prev, cur := signal[i-1], signal[i]
		if prev < level && cur >= level {
			frac := (level - prev) / (cur - prev)
			crossings = append(crossings, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	if len(crossings) < 2 {
		return 0, ErrNoPeriod
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), nil
}
