package uncertain

import (
	"fmt"
	"math"
)

// Distribution identifies the probability distribution of a Value.
type Distribution int

const (
	// AsymNormal is the split normal: N(nominal, sigma_low) below the
	// nominal value, N(nominal, sigma_up) above it.
	AsymNormal Distribution = iota
	// Normal is the symmetric normal distribution (sigma_low == sigma_up).
	Normal
	// Uniform is uniform over [nominal-sigma_low, nominal+sigma_up].
	Uniform
)

// String returns the wire name of the distribution.
func (d Distribution) String() string {
	switch d {
	case Normal:
		return "normal"
	case Uniform:
		return "uniform"
	default:
		return "asym-normal"
	}
}

// ParseDistribution converts a wire name into a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "", "asym-normal", "asymmetric-normal":
		return AsymNormal, nil
	case "normal":
		return Normal, nil
	case "uniform":
		return Uniform, nil
	default:
		return AsymNormal, fmt.Errorf("%w: unknown distribution %q", ErrInvalidParameter, s)
	}
}

// Value is an immutable quantity with an asymmetric uncertainty.
// Values carry no random state: the sampling sub-stream of a Value is
// assigned during evaluation from its position in the expression, so two
// Values constructed with the same parameters are interchangeable.
type Value struct {
	nominal  float64
	sigmaLow float64
	sigmaUp  float64
	dist     Distribution
	lower    float64
	upper    float64
}

// New creates a split-normal Value with independent lower and upper
// 1-sigma uncertainties. Fails with ErrInvalidParameter when either
// uncertainty is negative.
func New(nominal, sigmaLow, sigmaUp float64) (*Value, error) {
	return newValue(nominal, sigmaLow, sigmaUp, AsymNormal)
}

// NewNormal creates a symmetric normal Value.
func NewNormal(nominal, sigma float64) (*Value, error) {
	return newValue(nominal, sigma, sigma, Normal)
}

// NewUniform creates a Value distributed uniformly over
// [nominal-lower, nominal+upper].
func NewUniform(nominal, lower, upper float64) (*Value, error) {
	if lower == 0 && upper == 0 {
		return nil, fmt.Errorf("%w: uniform width must be positive", ErrInvalidParameter)
	}
	return newValue(nominal, lower, upper, Uniform)
}

// Exact creates a Value with zero uncertainty. Exact values never
// consume random draws during evaluation.
func Exact(v float64) *Value {
	val, _ := newValue(v, 0, 0, AsymNormal)
	return val
}

func newValue(nominal, sigmaLow, sigmaUp float64, dist Distribution) (*Value, error) {
	if math.IsNaN(nominal) || math.IsInf(nominal, 0) {
		return nil, fmt.Errorf("%w: nominal value must be finite, got %g", ErrInvalidParameter, nominal)
	}
	if sigmaLow < 0 {
		return nil, fmt.Errorf("%w: lower uncertainty must be >= 0, got %g", ErrInvalidParameter, sigmaLow)
	}
	if sigmaUp < 0 {
		return nil, fmt.Errorf("%w: upper uncertainty must be >= 0, got %g", ErrInvalidParameter, sigmaUp)
	}
	return &Value{
		nominal:  nominal,
		sigmaLow: sigmaLow,
		sigmaUp:  sigmaUp,
		dist:     dist,
		lower:    math.Inf(-1),
		upper:    math.Inf(1),
	}, nil
}

// Nominal returns the nominal (most probable) value.
func (v *Value) Nominal() float64 { return v.nominal }

// SigmaLow returns the lower 1-sigma uncertainty.
func (v *Value) SigmaLow() float64 { return v.sigmaLow }

// SigmaUp returns the upper 1-sigma uncertainty.
func (v *Value) SigmaUp() float64 { return v.sigmaUp }

// Dist returns the distribution kind.
func (v *Value) Dist() Distribution { return v.dist }

// Limits returns the truncation interval; (-Inf, +Inf) means untruncated.
func (v *Value) Limits() (lower, upper float64) { return v.lower, v.upper }

// IsExact reports whether both uncertainties are zero. Exact values
// short-circuit sampling.
func (v *Value) IsExact() bool { return v.sigmaLow == 0 && v.sigmaUp == 0 }

// WithLimits returns a copy of v truncated to [lower, upper] whose
// nominal value and sigmas have been re-derived from the truncated
// distribution by the same Monte Carlo reduction used for expressions.
//
// New limits disjoint from the old interval are rejected: sampling there
// would require quantiles in the far tail of the old distribution, which
// is numerically unstable.
func (v *Value) WithLimits(lower, upper float64, opts ...Option) (*Value, error) {
	if !(lower < upper) {
		return nil, fmt.Errorf("%w: limits must be strictly increasing, got [%g, %g]",
			ErrInvalidParameter, lower, upper)
	}
	if lower >= v.upper || upper <= v.lower {
		return nil, fmt.Errorf("%w: new limits [%g, %g] are outside the old interval [%g, %g]",
			ErrInvalidParameter, lower, upper, v.lower, v.upper)
	}

	trunc := *v
	trunc.lower = lower
	trunc.upper = upper

	if trunc.IsExact() {
		trunc.nominal = math.Min(math.Max(trunc.nominal, lower), upper)
		return &trunc, nil
	}
	return refresh(&trunc, opts)
}

// String renders the PDG-rounded summary as "m - l + u".
func (v *Value) String() string {
	r := RoundPDG(v.nominal, v.sigmaLow, v.sigmaUp)
	return fmt.Sprintf("%v - %v + %v", r[0], r[1], r[2])
}

// Rounded returns {nominal, sigma_low, sigma_up} rounded per the Particle
// Data Group display rules.
func (v *Value) Rounded() [3]float64 {
	return RoundPDG(v.nominal, v.sigmaLow, v.sigmaUp)
}
