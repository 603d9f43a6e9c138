package pool

import "fmt"

// MergePolicy selects how merge operations combine data for names that
// already exist in the pool.
type MergePolicy string

const (
	// MergeDefault only inserts unseen names; merging into a pre-existing
	// name is an error, forcing call sites to pick a policy explicitly.
	MergeDefault MergePolicy = ""
	// MergeReplace discards existing data for the name, regardless of its
	// previous kind, and substitutes the new data.
	MergeReplace MergePolicy = "replace"
	// MergeAppend concatenates new elements after the existing ones; the
	// kinds must match exactly.
	MergeAppend MergePolicy = "append"
	// MergeInterleave zips existing and new elements of the same kind,
	// alternating one of each; once the shorter side is exhausted the
	// leftovers of the longer side follow.
	MergeInterleave MergePolicy = "interleave"
)

func interleaved[T any](old, fresh []T) []T {
	out := make([]T, 0, len(old)+len(fresh))
	i, j := 0, 0
	for i < len(old) || j < len(fresh) {
		if i < len(old) {
			out = append(out, old[i])
			i++
		}
		if j < len(fresh) {
			out = append(out, fresh[j])
			j++
		}
	}
	return out
}

// mergeSeq merges values into the accumulating sub-pool sp under policy.
// Takes the full lock: it inspects every sub-pool and may evict name from
// another one under MergeReplace.
func mergeSeq[T any](p *Pool, sp *subPool[T], own kind, name string, values []T, policy MergePolicy) error {
	unlock := p.lockAll()
	defer unlock()

	k := p.kindOfLocked(name)
	if k == kindNone {
		if err := p.validateKeyLocked(name); err != nil {
			return err
		}
		sp.m[name] = append(make([]T, 0, len(values)), values...)
		return nil
	}

	switch policy {
	case MergeDefault:
		return fmt.Errorf("pool: merge %q: pre-existing descriptor needs an explicit policy: %w", name, ErrTypeConflict)
	case MergeReplace:
		p.removeLocked(name)
		sp.m[name] = append(make([]T, 0, len(values)), values...)
		return nil
	case MergeAppend:
		if k != own {
			return fmt.Errorf("pool: merge %q: held as %s, merging %s: %w", name, k, own, ErrTypeConflict)
		}
		sp.m[name] = append(sp.m[name], values...)
		return nil
	case MergeInterleave:
		if k != own {
			return fmt.Errorf("pool: merge %q: held as %s, merging %s: %w", name, k, own, ErrTypeConflict)
		}
		sp.m[name] = interleaved(sp.m[name], values)
		return nil
	}
	return fmt.Errorf("pool: merge %q: policy %q: %w", name, policy, ErrUnsupported)
}

// mergeSingleTo merges value into the single sub-pool sp under policy.
// Single slots hold one datum, so only MergeReplace can touch an existing
// one.
func mergeSingleTo[T any](p *Pool, sp *singlePool[T], own kind, name string, value T, policy MergePolicy) error {
	unlock := p.lockAll()
	defer unlock()

	k := p.kindOfLocked(name)
	if k == kindNone {
		if err := p.validateKeyLocked(name); err != nil {
			return err
		}
		sp.m[name] = value
		return nil
	}

	switch policy {
	case MergeDefault:
		return fmt.Errorf("pool: merge %q: pre-existing descriptor needs an explicit policy: %w", name, ErrTypeConflict)
	case MergeReplace:
		p.removeLocked(name)
		sp.m[name] = value
		return nil
	case MergeAppend, MergeInterleave:
		if k != own {
			return fmt.Errorf("pool: merge %q: held as %s, merging %s: %w", name, k, own, ErrTypeConflict)
		}
		return fmt.Errorf("pool: merge %q: policy %q on single-value descriptor: %w", name, policy, ErrUnsupported)
	}
	return fmt.Errorf("pool: merge %q: policy %q: %w", name, policy, ErrUnsupported)
}

// MergeValues merges values into the accumulating descriptor name under
// the given policy.
func MergeValues[T Addable](p *Pool, name string, values []T, policy MergePolicy) error {
	switch vs := any(values).(type) {
	case []float64:
		return mergeSeq(p, &p.real, kindReal, name, vs, policy)
	case [][]float64:
		return mergeSeq(p, &p.vectorReal, kindVectorReal, name, vs, policy)
	case []string:
		return mergeSeq(p, &p.str, kindString, name, vs, policy)
	case [][]string:
		return mergeSeq(p, &p.vectorStr, kindVectorString, name, vs, policy)
	case []Array2D:
		return mergeSeq(p, &p.array2d, kindArray2DReal, name, vs, policy)
	case []StereoSample:
		return mergeSeq(p, &p.stereo, kindStereoSample, name, vs, policy)
	}
	return fmt.Errorf("pool: merge %q: %w", name, ErrUnsupported)
}

// MergeSingle merges value into the single-mode descriptor name under the
// given policy.
func MergeSingle[T Settable](p *Pool, name string, value T, policy MergePolicy) error {
	switch v := any(value).(type) {
	case float64:
		return mergeSingleTo(p, &p.singleReal, kindSingleReal, name, v, policy)
	case string:
		return mergeSingleTo(p, &p.singleStr, kindSingleString, name, v, policy)
	case []float64:
		return mergeSingleTo(p, &p.singleVector, kindSingleVectorReal, name, v, policy)
	}
	return fmt.Errorf("pool: merge %q: %w", name, ErrUnsupported)
}

// snapshot is a stable copy of a pool's contents, taken under its full
// lock so a store-to-store merge is immune to concurrent mutation of the
// source pool.
type snapshot struct {
	real       map[string][]float64
	vectorReal map[string][][]float64
	str        map[string][]string
	vectorStr  map[string][][]string
	array2d    map[string][]Array2D
	stereo     map[string][]StereoSample

	singleReal   map[string]float64
	singleStr    map[string]string
	singleVector map[string][]float64
}

func (p *Pool) snapshot() snapshot {
	unlock := p.lockAll()
	defer unlock()
	s := snapshot{
		real:         make(map[string][]float64, len(p.real.m)),
		vectorReal:   make(map[string][][]float64, len(p.vectorReal.m)),
		str:          make(map[string][]string, len(p.str.m)),
		vectorStr:    make(map[string][][]string, len(p.vectorStr.m)),
		array2d:      make(map[string][]Array2D, len(p.array2d.m)),
		stereo:       make(map[string][]StereoSample, len(p.stereo.m)),
		singleReal:   make(map[string]float64, len(p.singleReal.m)),
		singleStr:    make(map[string]string, len(p.singleStr.m)),
		singleVector: make(map[string][]float64, len(p.singleVector.m)),
	}
	for n, v := range p.real.m {
		s.real[n] = append([]float64(nil), v...)
	}
	for n, v := range p.vectorReal.m {
		s.vectorReal[n] = append([][]float64(nil), v...)
	}
	for n, v := range p.str.m {
		s.str[n] = append([]string(nil), v...)
	}
	for n, v := range p.vectorStr.m {
		s.vectorStr[n] = append([][]string(nil), v...)
	}
	for n, v := range p.array2d.m {
		s.array2d[n] = append([]Array2D(nil), v...)
	}
	for n, v := range p.stereo.m {
		s.stereo[n] = append([]StereoSample(nil), v...)
	}
	for n, v := range p.singleReal.m {
		s.singleReal[n] = v
	}
	for n, v := range p.singleStr.m {
		s.singleStr[n] = v
	}
	for n, v := range p.singleVector.m {
		s.singleVector[n] = append([]float64(nil), v...)
	}
	return s
}

// Merge applies policy to every descriptor present in other, combining it
// into p. It iterates a stable snapshot of other, so concurrent mutation
// of other during the merge cannot interfere. The first failing
// descriptor aborts the merge; earlier descriptors stay merged.
func (p *Pool) Merge(other *Pool, policy MergePolicy) error {
	s := other.snapshot()
	for n, v := range s.real {
		if err := mergeSeq(p, &p.real, kindReal, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.vectorReal {
		if err := mergeSeq(p, &p.vectorReal, kindVectorReal, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.str {
		if err := mergeSeq(p, &p.str, kindString, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.vectorStr {
		if err := mergeSeq(p, &p.vectorStr, kindVectorString, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.array2d {
		if err := mergeSeq(p, &p.array2d, kindArray2DReal, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.stereo {
		if err := mergeSeq(p, &p.stereo, kindStereoSample, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.singleReal {
		if err := mergeSingleTo(p, &p.singleReal, kindSingleReal, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.singleStr {
		if err := mergeSingleTo(p, &p.singleStr, kindSingleString, n, v, policy); err != nil {
			return err
		}
	}
	for n, v := range s.singleVector {
		if err := mergeSingleTo(p, &p.singleVector, kindSingleVectorReal, n, v, policy); err != nil {
			return err
		}
	}
	return nil
}
