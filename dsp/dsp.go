// Package dsp holds the frame-to-frame transforms a pipeline stage is
// configured with. Implementations are pure: the stage may call them from
// any goroutine and no state is retained between calls.
package dsp

import (
	"errors"
	"math"
)

// ErrEmptyFrame is returned when a transform receives a zero-length frame.
var ErrEmptyFrame = errors.New("dsp: empty frame")

// FrameTransform maps one fixed-length real frame to another.
type FrameTransform interface {
	Transform(frame []float64) ([]float64, error)
}

// Hann applies a symmetric Hann window. The output has the same length as
// the input.
type Hann struct{}

func (Hann) Transform(frame []float64) ([]float64, error) {
	n := len(frame)
	if n == 0 {
		return nil, ErrEmptyFrame
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = frame[0]
		return out, nil
	}
	for i, v := range frame {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		out[i] = v * w
	}
	return out, nil
}

// Spectrum computes the magnitude spectrum of a real frame: len(frame)/2+1
// bins of a discrete Fourier transform. Frame sizes in the rhythm domain
// are small, so the direct transform is fine here.
type Spectrum struct{}

func (Spectrum) Transform(frame []float64) ([]float64, error) {
	n := len(frame)
	if n == 0 {
		return nil, ErrEmptyFrame
	}
	bins := n/2 + 1
	out := make([]float64, bins)
	for k := 0; k < bins; k++ {
		var re, im float64
		for j, v := range frame {
			phi := 2 * math.Pi * float64(k) * float64(j) / float64(n)
			re += v * math.Cos(phi)
			im -= v * math.Sin(phi)
		}
		out[k] = math.Hypot(re, im)
	}
	return out, nil
}
