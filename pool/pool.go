package pool

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// StereoSample is one two-channel sample.
type StereoSample struct {
	Left  float64
	Right float64
}

// Array2D is a dense two-dimensional real matrix, indexed [row][col].
type Array2D [][]float64

// Addable constrains the kinds storable in accumulating mode.
type Addable interface {
	float64 | string | []float64 | []string | Array2D | StereoSample
}

// Settable constrains the kinds storable in single mode.
type Settable interface {
	float64 | string | []float64
}

// kind identifies one of the nine sub-pools.
type kind int

const (
	kindNone kind = iota
	kindReal
	kindVectorReal
	kindString
	kindVectorString
	kindArray2DReal
	kindStereoSample
	kindSingleReal
	kindSingleString
	kindSingleVectorReal
)

var kindNames = map[kind]string{
	kindNone:             "none",
	kindReal:             "real",
	kindVectorReal:       "vector_real",
	kindString:           "string",
	kindVectorString:     "vector_string",
	kindArray2DReal:      "array2d_real",
	kindStereoSample:     "stereo_sample",
	kindSingleReal:       "single_real",
	kindSingleString:     "single_string",
	kindSingleVectorReal: "single_vector_real",
}

func (k kind) String() string { return kindNames[k] }

func (k kind) accumulating() bool { return k >= kindReal && k <= kindStereoSample }

// subPool holds accumulated sequences of one kind, under its own lock.
type subPool[T any] struct {
	mu sync.Mutex
	m  map[string][]T
}

// singlePool holds one value per name, under its own lock.
type singlePool[T any] struct {
	mu sync.Mutex
	m  map[string]T
}

// Pool is the descriptor store. The zero value is not usable; call New.
type Pool struct {
	real       subPool[float64]
	vectorReal subPool[[]float64]
	str        subPool[string]
	vectorStr  subPool[[]string]
	array2d    subPool[Array2D]
	stereo     subPool[StereoSample]

	singleReal   singlePool[float64]
	singleStr    singlePool[string]
	singleVector singlePool[[]float64]
}

// New returns an empty pool.
func New() *Pool {
	p := &Pool{}
	p.real.m = make(map[string][]float64)
	p.vectorReal.m = make(map[string][][]float64)
	p.str.m = make(map[string][]string)
	p.vectorStr.m = make(map[string][][]string)
	p.array2d.m = make(map[string][]Array2D)
	p.stereo.m = make(map[string][]StereoSample)
	p.singleReal.m = make(map[string]float64)
	p.singleStr.m = make(map[string]string)
	p.singleVector.m = make(map[string][]float64)
	return p
}

// lockAll acquires every sub-pool lock in the canonical order:
// real, vectorReal, string, vectorString, array2dReal, stereoSample,
// singleReal, singleString, singleVectorReal. The returned function
// releases them in reverse. Every cross-pool operation goes through here;
// nothing else may hold more than one sub-pool lock.
func (p *Pool) lockAll() (unlock func()) {
	p.real.mu.Lock()
	p.vectorReal.mu.Lock()
	p.str.mu.Lock()
	p.vectorStr.mu.Lock()
	p.array2d.mu.Lock()
	p.stereo.mu.Lock()
	p.singleReal.mu.Lock()
	p.singleStr.mu.Lock()
	p.singleVector.mu.Lock()
	return func() {
		p.singleVector.mu.Unlock()
		p.singleStr.mu.Unlock()
		p.singleReal.mu.Unlock()
		p.stereo.mu.Unlock()
		p.array2d.mu.Unlock()
		p.vectorStr.mu.Unlock()
		p.str.mu.Unlock()
		p.vectorReal.mu.Unlock()
		p.real.mu.Unlock()
	}
}

// kindOfLocked reports which sub-pool holds name. Assumes all sub-pool
// locks are held.
func (p *Pool) kindOfLocked(name string) kind {
	if _, ok := p.real.m[name]; ok {
		return kindReal
	}
	if _, ok := p.vectorReal.m[name]; ok {
		return kindVectorReal
	}
	if _, ok := p.str.m[name]; ok {
		return kindString
	}
	if _, ok := p.vectorStr.m[name]; ok {
		return kindVectorString
	}
	if _, ok := p.array2d.m[name]; ok {
		return kindArray2DReal
	}
	if _, ok := p.stereo.m[name]; ok {
		return kindStereoSample
	}
	if _, ok := p.singleReal.m[name]; ok {
		return kindSingleReal
	}
	if _, ok := p.singleStr.m[name]; ok {
		return kindSingleString
	}
	if _, ok := p.singleVector.m[name]; ok {
		return kindSingleVectorReal
	}
	return kindNone
}

// descriptorNamesLocked collects the keys of every sub-pool. Assumes all
// sub-pool locks are held. Order is unspecified.
func (p *Pool) descriptorNamesLocked() []string {
	var names []string
	for n := range p.real.m {
		names = append(names, n)
	}
	for n := range p.vectorReal.m {
		names = append(names, n)
	}
	for n := range p.str.m {
		names = append(names, n)
	}
	for n := range p.vectorStr.m {
		names = append(names, n)
	}
	for n := range p.array2d.m {
		names = append(names, n)
	}
	for n := range p.stereo.m {
		names = append(names, n)
	}
	for n := range p.singleReal.m {
		names = append(names, n)
	}
	for n := range p.singleStr.m {
		names = append(names, n)
	}
	for n := range p.singleVector.m {
		names = append(names, n)
	}
	return names
}

// validateKeyLocked enforces namespace exclusivity: name may not be a
// namespace prefix of an existing descriptor, nor live underneath one.
// Assumes all sub-pool locks are held and that name itself is absent.
func (p *Pool) validateKeyLocked(name string) error {
	for _, existing := range p.descriptorNamesLocked() {
		if strings.HasPrefix(existing, name+".") {
			return fmt.Errorf("pool: %q is a namespace of %q: %w", name, existing, ErrNamespaceConflict)
		}
		if strings.HasPrefix(name, existing+".") {
			return fmt.Errorf("pool: %q lies under leaf descriptor %q: %w", name, existing, ErrNamespaceConflict)
		}
	}
	return nil
}

// addTo appends v to the accumulated sequence for name in sp. The fast
// path touches only sp's lock; first insertion takes the full lock to
// validate the name across all sub-pools.
func addTo[T any](p *Pool, sp *subPool[T], name string, v T) error {
	sp.mu.Lock()
	if seq, ok := sp.m[name]; ok {
		sp.m[name] = append(seq, v)
		sp.mu.Unlock()
		return nil
	}
	sp.mu.Unlock()

	unlock := p.lockAll()
	defer unlock()
	if seq, ok := sp.m[name]; ok { // raced with a concurrent first add
		sp.m[name] = append(seq, v)
		return nil
	}
	if k := p.kindOfLocked(name); k != kindNone {
		return fmt.Errorf("pool: add %q: already held as %s: %w", name, k, ErrTypeConflict)
	}
	if err := p.validateKeyLocked(name); err != nil {
		return err
	}
	sp.m[name] = []T{v}
	return nil
}

// appendTo is the bulk form of addTo.
func appendTo[T any](p *Pool, sp *subPool[T], name string, values []T) error {
	sp.mu.Lock()
	if seq, ok := sp.m[name]; ok {
		sp.m[name] = append(seq, values...)
		sp.mu.Unlock()
		return nil
	}
	sp.mu.Unlock()

	unlock := p.lockAll()
	defer unlock()
	if seq, ok := sp.m[name]; ok {
		sp.m[name] = append(seq, values...)
		return nil
	}
	if k := p.kindOfLocked(name); k != kindNone {
		return fmt.Errorf("pool: append %q: already held as %s: %w", name, k, ErrTypeConflict)
	}
	if err := p.validateKeyLocked(name); err != nil {
		return err
	}
	sp.m[name] = append(make([]T, 0, len(values)), values...)
	return nil
}

// setTo stores v as the single value for name in sp. Overwriting an
// existing single value of the same kind is allowed.
func setTo[T any](p *Pool, sp *singlePool[T], name string, v T) error {
	sp.mu.Lock()
	if _, ok := sp.m[name]; ok {
		sp.m[name] = v
		sp.mu.Unlock()
		return nil
	}
	sp.mu.Unlock()

	unlock := p.lockAll()
	defer unlock()
	if _, ok := sp.m[name]; ok {
		sp.m[name] = v
		return nil
	}
	switch k := p.kindOfLocked(name); {
	case k == kindNone:
	case k.accumulating():
		return fmt.Errorf("pool: set %q: held as accumulated %s: %w", name, k, ErrAlreadyAccumulated)
	default:
		return fmt.Errorf("pool: set %q: already held as %s: %w", name, k, ErrTypeConflict)
	}
	if err := p.validateKeyLocked(name); err != nil {
		return err
	}
	sp.m[name] = v
	return nil
}

// Add appends value to the accumulated sequence for name, creating it if
// absent. With validityCheck set, real-valued kinds are rejected when they
// contain NaN or Inf.
func Add[T Addable](p *Pool, name string, value T, validityCheck bool) error {
	if validityCheck {
		if err := checkFinite(name, any(value)); err != nil {
			return err
		}
	}
	switch v := any(value).(type) {
	case float64:
		return addTo(p, &p.real, name, v)
	case []float64:
		return addTo(p, &p.vectorReal, name, v)
	case string:
		return addTo(p, &p.str, name, v)
	case []string:
		return addTo(p, &p.vectorStr, name, v)
	case Array2D:
		return addTo(p, &p.array2d, name, v)
	case StereoSample:
		return addTo(p, &p.stereo, name, v)
	}
	return fmt.Errorf("pool: add %q: %w", name, ErrUnsupported)
}

// Set stores value as the one datum for name. Unlike Add it does not
// accumulate; re-setting a name introduced via Add fails with
// ErrAlreadyAccumulated.
func Set[T Settable](p *Pool, name string, value T, validityCheck bool) error {
	if validityCheck {
		if err := checkFinite(name, any(value)); err != nil {
			return err
		}
	}
	switch v := any(value).(type) {
	case float64:
		return setTo(p, &p.singleReal, name, v)
	case string:
		return setTo(p, &p.singleStr, name, v)
	case []float64:
		return setTo(p, &p.singleVector, name, v)
	}
	return fmt.Errorf("pool: set %q: %w", name, ErrUnsupported)
}

// Append bulk-adds values under name. It shares Add's contract and exists
// for callers that already hold many homogeneous values; two-dimensional
// arrays have no bulk path and fail with ErrUnsupported.
func Append[T Addable](p *Pool, name string, values []T) error {
	switch vs := any(values).(type) {
	case []float64:
		return appendTo(p, &p.real, name, vs)
	case [][]float64:
		return appendTo(p, &p.vectorReal, name, vs)
	case []string:
		return appendTo(p, &p.str, name, vs)
	case [][]string:
		return appendTo(p, &p.vectorStr, name, vs)
	case []StereoSample:
		return appendTo(p, &p.stereo, name, vs)
	}
	return fmt.Errorf("pool: append %q: %w", name, ErrUnsupported)
}

func checkFinite(name string, v any) error {
	bad := func() error {
		return fmt.Errorf("pool: %q: %w", name, ErrInvalidValue)
	}
	finite := func(f float64) bool {
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	switch v := v.(type) {
	case float64:
		if !finite(v) {
			return bad()
		}
	case []float64:
		for _, f := range v {
			if !finite(f) {
				return bad()
			}
		}
	case Array2D:
		for _, row := range v {
			for _, f := range row {
				if !finite(f) {
					return bad()
				}
			}
		}
	case StereoSample:
		if !finite(v.Left) || !finite(v.Right) {
			return bad()
		}
	}
	return nil
}

// removeLocked deletes name from every sub-pool. Assumes all sub-pool
// locks are held.
func (p *Pool) removeLocked(name string) {
	delete(p.real.m, name)
	delete(p.vectorReal.m, name)
	delete(p.str.m, name)
	delete(p.vectorStr.m, name)
	delete(p.array2d.m, name)
	delete(p.stereo.m, name)
	delete(p.singleReal.m, name)
	delete(p.singleStr.m, name)
	delete(p.singleVector.m, name)
}

// Remove deletes name and its data from whichever sub-pool holds it.
// It is a no-op if name is absent.
func (p *Pool) Remove(name string) {
	unlock := p.lockAll()
	defer unlock()
	p.removeLocked(name)
}

// RemoveNamespace deletes every descriptor under the namespace ns.
// It is a no-op if the namespace is empty.
func (p *Pool) RemoveNamespace(ns string) {
	unlock := p.lockAll()
	defer unlock()
	prefix := ns + "."
	for _, name := range p.descriptorNamesLocked() {
		if strings.HasPrefix(name, prefix) {
			p.removeLocked(name)
		}
	}
}

// DescriptorNames returns every descriptor name in the pool, across all
// sub-pools. Order is unspecified.
func (p *Pool) DescriptorNames() []string {
	unlock := p.lockAll()
	defer unlock()
	return p.descriptorNamesLocked()
}

// DescriptorNamesIn returns the descriptor names under the namespace ns.
// Order is unspecified.
func (p *Pool) DescriptorNamesIn(ns string) []string {
	unlock := p.lockAll()
	defer unlock()
	prefix := ns + "."
	var names []string
	for _, name := range p.descriptorNamesLocked() {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// CheckIntegrity scans all nine sub-pools and reports ErrDuplicateKind if
// any name appears in more than one. The pool never repairs itself; a
// violation means unchecked internal mutation and is fatal to the run.
func (p *Pool) CheckIntegrity() error {
	unlock := p.lockAll()
	defer unlock()
	seen := make(map[string]kind)
	check := func(name string, k kind) error {
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("pool: %q held as both %s and %s: %w", name, prev, k, ErrDuplicateKind)
		}
		seen[name] = k
		return nil
	}
	for n := range p.real.m {
		if err := check(n, kindReal); err != nil {
			return err
		}
	}
	for n := range p.vectorReal.m {
		if err := check(n, kindVectorReal); err != nil {
			return err
		}
	}
	for n := range p.str.m {
		if err := check(n, kindString); err != nil {
			return err
		}
	}
	for n := range p.vectorStr.m {
		if err := check(n, kindVectorString); err != nil {
			return err
		}
	}
	for n := range p.array2d.m {
		if err := check(n, kindArray2DReal); err != nil {
			return err
		}
	}
	for n := range p.stereo.m {
		if err := check(n, kindStereoSample); err != nil {
			return err
		}
	}
	for n := range p.singleReal.m {
		if err := check(n, kindSingleReal); err != nil {
			return err
		}
	}
	for n := range p.singleStr.m {
		if err := check(n, kindSingleString); err != nil {
			return err
		}
	}
	for n := range p.singleVector.m {
		if err := check(n, kindSingleVectorReal); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties every sub-pool.
func (p *Pool) Clear() {
	unlock := p.lockAll()
	defer unlock()
	p.real.m = make(map[string][]float64)
	p.vectorReal.m = make(map[string][][]float64)
	p.str.m = make(map[string][]string)
	p.vectorStr.m = make(map[string][][]string)
	p.array2d.m = make(map[string][]Array2D)
	p.stereo.m = make(map[string][]StereoSample)
	p.singleReal.m = make(map[string]float64)
	p.singleStr.m = make(map[string]string)
	p.singleVector.m = make(map[string][]float64)
}

// IsSingleValue reports whether name holds a single-mode value.
func (p *Pool) IsSingleValue(name string) bool {
	p.singleReal.mu.Lock()
	_, ok := p.singleReal.m[name]
	p.singleReal.mu.Unlock()
	if ok {
		return true
	}
	p.singleStr.mu.Lock()
	_, ok = p.singleStr.m[name]
	p.singleStr.mu.Unlock()
	if ok {
		return true
	}
	p.singleVector.mu.Lock()
	_, ok = p.singleVector.m[name]
	p.singleVector.mu.Unlock()
	return ok
}
