package uncertain

import (
	"fmt"
	"math"

	"github.com/metrolabs/uncertain/mcstat"
	"github.com/metrolabs/uncertain/sampling"
)

// Defaults for evaluation options.
const (
	DefaultTrials   = 100000
	DefaultCoverage = 0.95
	DefaultMinValid = 100
	DefaultSeed     = 1
)

// OneSigma is re-exported for callers propagating at the 1-sigma level.
const OneSigma = mcstat.OneSigma

// Options configures one evaluation run.
type Options struct {
	Trials   int     // Monte Carlo trial count
	Coverage float64 // coverage fraction of the reported interval
	Seed     uint64  // run seed; fixed seed means bit-identical results
	MinValid int     // smallest acceptable number of valid trials
}

// Option overrides one evaluation setting.
type Option func(*Options)

// WithTrials sets the Monte Carlo trial count.
func WithTrials(n int) Option { return func(o *Options) { o.Trials = n } }

// WithCoverage sets the coverage fraction of the reported interval.
func WithCoverage(c float64) Option { return func(o *Options) { o.Coverage = c } }

// WithSeed sets the run seed. Sampling never touches global random
// state; the same seed always reproduces the same Result.
func WithSeed(s uint64) Option { return func(o *Options) { o.Seed = s } }

// WithMinValid sets the minimum number of valid trials required to
// report a Result.
func WithMinValid(m int) Option { return func(o *Options) { o.MinValid = m } }

func buildOptions(opts []Option) Options {
	o := Options{
		Trials:   DefaultTrials,
		Coverage: DefaultCoverage,
		Seed:     DefaultSeed,
		MinValid: DefaultMinValid,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) validate() error {
	if o.Trials <= 0 {
		return fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidParameter, o.Trials)
	}
	if o.Coverage <= 0 || o.Coverage > 1 {
		return fmt.Errorf("%w: coverage must be in (0, 1], got %g", ErrInvalidParameter, o.Coverage)
	}
	return nil
}

// Result summarizes the output sample population of one evaluation.
type Result struct {
	Mean         float64 `json:"mean"`
	MostProbable float64 `json:"most_probable"`
	LowerBound   float64 `json:"lower_bound"`
	UpperBound   float64 `json:"upper_bound"`
	Coverage     float64 `json:"coverage"`

	// InvalidFraction is the share of trials absorbed as NaN/Inf
	// sentinels. Always reported so callers can judge reliability.
	InvalidFraction float64 `json:"invalid_fraction"`

	Trials      int `json:"trials"`
	ValidTrials int `json:"valid_trials"`
}

// SigmaLow is the distance from the most probable value to the lower
// coverage bound.
func (r Result) SigmaLow() float64 { return r.MostProbable - r.LowerBound }

// SigmaUp is the distance from the most probable value to the upper
// coverage bound.
func (r Result) SigmaUp() float64 { return r.UpperBound - r.MostProbable }

// Rounded returns {most probable, sigma_low, sigma_up} rounded per the
// Particle Data Group display rules.
func (r Result) Rounded() [3]float64 {
	return RoundPDG(r.MostProbable, r.SigmaLow(), r.SigmaUp())
}

// String renders the PDG-rounded summary as "m - l + u".
func (r Result) String() string {
	v := r.Rounded()
	return fmt.Sprintf("%v - %v + %v", v[0], v[1], v[2])
}

// Evaluate samples every distinct Value in the expression once, pushes
// the sample vectors through the tree trial by trial, and reduces the
// output population.
//
// Correlation semantics: a Value appearing several times contributes the
// same per-trial draw at each occurrence, as GUM Supplement 1 requires
// when one input feeds an expression more than once.
func Evaluate(x Operand, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return Result{}, err
	}

	root := x.node()
	cache := make(map[*Value][]float64)
	for i, v := range root.leaves() {
		samples, err := sampleValue(v, o.Trials, sampling.MixSeed(o.Seed, uint64(i)))
		if err != nil {
			return Result{}, err
		}
		cache[v] = samples
	}

	out := evalNode(root, cache, o.Trials)

	sum, err := mcstat.Summarize(out, o.Coverage, o.MinValid)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Mean:            sum.Mean,
		MostProbable:    sum.MostProbable,
		LowerBound:      sum.Lower,
		UpperBound:      sum.Upper,
		Coverage:        sum.Coverage,
		InvalidFraction: sum.InvalidFraction,
		Trials:          sum.Trials,
		ValidTrials:     sum.Valid,
	}, nil
}

// Propagate evaluates the expression at 1-sigma coverage and folds the
// summary back into a derived split-normal Value, so results can feed
// further calculations the way inputs do.
func Propagate(x Operand, opts ...Option) (*Value, error) {
	r, err := Evaluate(x, append(opts, WithCoverage(mcstat.OneSigma))...)
	if err != nil {
		return nil, err
	}
	return New(r.MostProbable,
		math.Max(r.SigmaLow(), 0),
		math.Max(r.SigmaUp(), 0))
}

// refresh re-derives the summary of a single (typically truncated) Value
// in place of its constructor parameters, keeping distribution kind and
// limits.
func refresh(v *Value, opts []Option) (*Value, error) {
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	samples, err := sampleValue(v, o.Trials, sampling.MixSeed(o.Seed, 0))
	if err != nil {
		return nil, err
	}
	sum, err := mcstat.Summarize(samples, mcstat.OneSigma, o.MinValid)
	if err != nil {
		return nil, err
	}
	out := *v
	out.nominal = sum.MostProbable
	out.sigmaLow = math.Max(sum.MostProbable-sum.Lower, 0)
	out.sigmaUp = math.Max(sum.Upper-sum.MostProbable, 0)
	return &out, nil
}

// sampleValue draws the trial vector for one leaf from the given
// sub-stream seed. Evaluate keys the stream by the run seed and the
// leaf's first-occurrence position in the tree, so a run depends only on
// the seed and the expression, never on construction history.
func sampleValue(v *Value, trials int, seed uint64) ([]float64, error) {
	src := sampling.NewSource(seed)

	if v.dist == Uniform {
		lo := math.Max(v.lower, v.nominal-v.sigmaLow)
		hi := math.Min(v.upper, v.nominal+v.sigmaUp)
		return sampling.Uniform(lo, hi, trials, src)
	}

	// Normal and split normal share one path; exact values come back as
	// constant vectors without consuming draws.
	return sampling.AsymNormal(sampling.AsymConfig{
		Mean:     v.nominal,
		SigmaLow: v.sigmaLow,
		SigmaUp:  v.sigmaUp,
		Lower:    v.lower,
		Upper:    v.upper,
	}, trials, src)
}

// evalNode evaluates the tree element-wise over the trial vectors.
// Undefined per-trial results (0/0, sqrt of a negative, log of a
// non-positive) propagate as NaN/Inf sentinels and are filtered during
// reduction, never aborting the run.
func evalNode(n *Expr, cache map[*Value][]float64, trials int) []float64 {
	switch n.kind {
	case kindLeaf:
		return cache[n.val]
	case kindConst:
		out := make([]float64, trials)
		for i := range out {
			out[i] = n.c
		}
		return out
	case kindNeg:
		a := evalNode(n.left, cache, trials)
		out := make([]float64, trials)
		for i := range out {
			out[i] = -a[i]
		}
		return out
	case kindFunc:
		a := evalNode(n.left, cache, trials)
		out := make([]float64, trials)
		for i := range out {
			out[i] = n.fn.apply(a[i])
		}
		return out
	}

	a := evalNode(n.left, cache, trials)
	b := evalNode(n.right, cache, trials)
	out := make([]float64, trials)
	switch n.kind {
	case kindAdd:
		for i := range out {
			out[i] = a[i] + b[i]
		}
	case kindSub:
		for i := range out {
			out[i] = a[i] - b[i]
		}
	case kindMul:
		for i := range out {
			out[i] = a[i] * b[i]
		}
	case kindDiv:
		for i := range out {
			out[i] = a[i] / b[i]
		}
	case kindPow:
		for i := range out {
			out[i] = math.Pow(a[i], b[i])
		}
	}
	return out
}
