package dsp

import (
	"math"
	"testing"
)

func TestHann_EndpointsAreZero(t *testing.T) {
	w := Hann{}
	out, err := w.Transform([]float64{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out[0] != 0 || out[len(out)-1] != 0 {
		t.Fatalf("window endpoints not zero: %v", out)
	}
	if math.Abs(out[2]-1) > 1e-12 {
		t.Fatalf("window midpoint not unity: %v", out)
	}
}

func TestHann_SingleSamplePassthrough(t *testing.T) {
	out, err := Hann{}.Transform([]float64{3})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(out) != 1 || out[0] != 3 {
		t.Fatalf("want [3], got %v", out)
	}
}

func TestSpectrum_DCInput(t *testing.T) {
	out, err := Spectrum{}.Transform([]float64{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("want 3 bins, got %d", len(out))
	}
	if math.Abs(out[0]-4) > 1e-9 {
		t.Fatalf("DC bin: want 4, got %v", out[0])
	}
	for k := 1; k < len(out); k++ {
		if math.Abs(out[k]) > 1e-9 {
			t.Fatalf("bin %d: want 0, got %v", k, out[k])
		}
	}
}

func TestSpectrum_ImpulseIsFlat(t *testing.T) {
	out, err := Spectrum{}.Transform([]float64{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	for k, v := range out {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("bin %d: want 1, got %v", k, v)
		}
	}
}

func TestSpectrum_TwoSampleFrame(t *testing.T) {
	out, err := Spectrum{}.Transform([]float64{2, 0})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 bins, got %d", len(out))
	}
	if math.Abs(out[0]-2) > 1e-9 || math.Abs(out[1]-2) > 1e-9 {
		t.Fatalf("want [2 2], got %v", out)
	}
}

func TestEmptyFrames(t *testing.T) {
	if _, err := (Hann{}).Transform(nil); err == nil {
		t.Fatal("Hann accepted empty frame")
	}
	if _, err := (Spectrum{}).Transform(nil); err == nil {
		t.Fatal("Spectrum accepted empty frame")
	}
}
