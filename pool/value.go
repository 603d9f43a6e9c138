package pool

import "fmt"

// Stored constrains the shapes a lookup can return: the accumulated
// sequence for accumulating kinds, the one datum for single kinds.
// []float64 is ambiguous by construction: it may be an accumulated
// sequence of reals or a single-mode vector of reals.
type Stored interface {
	float64 | string | []float64 | []string |
		[][]float64 | [][]string | []Array2D | []StereoSample
}

func valueFrom[T any](sp *subPool[T], name string) ([]T, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	seq, ok := sp.m[name]
	if !ok {
		return nil, false
	}
	// snapshot the top-level sequence so readers stay consistent while
	// writers keep accumulating
	out := make([]T, len(seq))
	copy(out, seq)
	return out, true
}

func valueSingle[T any](sp *singlePool[T], name string) (T, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	v, ok := sp.m[name]
	return v, ok
}

func containsIn[T any](sp *subPool[T], name string) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	_, ok := sp.m[name]
	return ok
}

func containsSingle[T any](sp *singlePool[T], name string) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	_, ok := sp.m[name]
	return ok
}

// Value returns the data stored under name with shape T, or ErrNotFound.
// For T = []float64 the accumulating real sub-pool is probed first and the
// single vector-real sub-pool second; the lookup fails only when name is
// absent from both. Accumulated sequences are returned as a consistent
// top-level snapshot.
func Value[T Stored](p *Pool, name string) (T, error) {
	var zero T
	var got any
	var ok bool
	var k kind
	switch any(zero).(type) {
	case float64:
		k = kindSingleReal
		got, ok = valueSingle(&p.singleReal, name)
	case string:
		k = kindSingleString
		got, ok = valueSingle(&p.singleStr, name)
	case []float64:
		k = kindReal
		var v []float64
		if v, ok = valueFrom(&p.real, name); !ok {
			k = kindSingleVectorReal
			var sv []float64
			if sv, ok = valueSingle(&p.singleVector, name); ok {
				v = make([]float64, len(sv))
				copy(v, sv)
			}
		}
		got = v
	case []string:
		k = kindString
		got, ok = valueFrom(&p.str, name)
	case [][]float64:
		k = kindVectorReal
		got, ok = valueFrom(&p.vectorReal, name)
	case [][]string:
		k = kindVectorString
		got, ok = valueFrom(&p.vectorStr, name)
	case []Array2D:
		k = kindArray2DReal
		got, ok = valueFrom(&p.array2d, name)
	case []StereoSample:
		k = kindStereoSample
		got, ok = valueFrom(&p.stereo, name)
	default:
		return zero, fmt.Errorf("pool: value %q: %w", name, ErrUnsupported)
	}
	if !ok {
		return zero, fmt.Errorf("pool: %q of kind %s: %w", name, k, ErrNotFound)
	}
	return got.(T), nil
}

// Contains reports whether name holds data of shape T. It never fails;
// the T = []float64 case probes both candidate sub-pools like Value.
func Contains[T Stored](p *Pool, name string) bool {
	var zero T
	switch any(zero).(type) {
	case float64:
		return containsSingle(&p.singleReal, name)
	case string:
		return containsSingle(&p.singleStr, name)
	case []float64:
		return containsIn(&p.real, name) || containsSingle(&p.singleVector, name)
	case []string:
		return containsIn(&p.str, name)
	case [][]float64:
		return containsIn(&p.vectorReal, name)
	case [][]string:
		return containsIn(&p.vectorStr, name)
	case []Array2D:
		return containsIn(&p.array2d, name)
	case []StereoSample:
		return containsIn(&p.stereo, name)
	}
	return false
}
