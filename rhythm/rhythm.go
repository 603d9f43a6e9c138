// Package rhythm computes a rhythmical representation of a signal in the
// rhythm domain, much like an FFT computes one in the frequency domain.
// The frameSize and hopSize parameters apply to the rhythm-space
// transform and have a different meaning than the sizes in the temporal
// dimension.
package rhythm

import (
	"fmt"

	"github.com/debeat/essentia/dsp"
)

// Config fixes the rhythm-space framing for the lifetime of a transform.
type Config struct {
	FrameSize int
	HopSize   int
}

// Transform computes the rhythm transform of a sequence of per-band
// energy frames. The windowing and spectrum collaborators are injected at
// construction and treated as black boxes.
type Transform struct {
	frameSize int
	hopSize   int
	window    dsp.FrameTransform
	spectrum  dsp.FrameTransform
}

// New validates cfg and returns a configured transform.
func New(cfg Config, window, spectrum dsp.FrameTransform) (*Transform, error) {
	if cfg.FrameSize <= 0 || cfg.HopSize <= 0 {
		return nil, fmt.Errorf("rhythm: frameSize and hopSize must be positive, got %d/%d", cfg.FrameSize, cfg.HopSize)
	}
	if window == nil || spectrum == nil {
		return nil, fmt.Errorf("rhythm: window and spectrum transforms are required")
	}
	return &Transform{
		frameSize: cfg.FrameSize,
		hopSize:   cfg.HopSize,
		window:    window,
		spectrum:  spectrum,
	}, nil
}

// Compute transforms bands, an ordered sequence of equal-length per-band
// energy frames (rows are frames, columns are bands), into a sequence of
// rhythm-domain frames. Each output entry corresponds to one window
// position and holds one squared spectrum per band, indexed [band][bin].
//
// An empty input produces an empty result: a stream that delivered no
// frames has an empty rhythm representation, not a failed one.
func (t *Transform) Compute(bands [][]float64) ([][][]float64, error) {
	nFrames := len(bands)
	if nFrames == 0 {
		return nil, nil
	}
	nBands := len(bands[0])
	for i, frame := range bands {
		if len(frame) != nBands {
			return nil, fmt.Errorf("rhythm: frame %d has %d bands, want %d", i, len(frame), nBands)
		}
	}

	// first difference along the frame axis, transposed to per-band rows
	deriv := make([][]float64, nBands)
	for band := 0; band < nBands; band++ {
		d := make([]float64, nFrames)
		for frame := 1; frame < nFrames; frame++ {
			d[frame] = bands[frame][band] - bands[frame-1][band]
		}
		deriv[band] = d
	}

	// Window every position while its start offset is inside the signal,
	// zero-padding past the end, so the whole input is covered instead of
	// discarding a trailing partial window.
	var out [][][]float64
	for i := 0; i < nFrames; i += t.hopSize {
		record := make([][]float64, nBands)
		for band := 0; band < nBands; band++ {
			frame := make([]float64, t.frameSize)
			for j := 0; j < t.frameSize && i+j < nFrames; j++ {
				frame[j] = deriv[band][i+j]
			}
			windowed, err := t.window.Transform(frame)
			if err != nil {
				return nil, fmt.Errorf("rhythm: window at offset %d: %w", i, err)
			}
			spectrum, err := t.spectrum.Transform(windowed)
			if err != nil {
				return nil, fmt.Errorf("rhythm: spectrum at offset %d: %w", i, err)
			}
			squared := make([]float64, len(spectrum))
			for bin, v := range spectrum {
				squared[bin] = v * v
			}
			record[band] = squared
		}
		out = append(out, record)
	}
	return out, nil
}
