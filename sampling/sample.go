package sampling

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// AsymConfig describes a split-normal distribution, optionally truncated.
type AsymConfig struct {
	Mean     float64
	SigmaLow float64 // standard deviation below the mean, >= 0
	SigmaUp  float64 // standard deviation above the mean, >= 0

	// Lower and Upper truncate the distribution. Use -Inf/+Inf (the zero
	// value via Unbounded) for no truncation.
	Lower float64
	Upper float64

	// ConserveMean weights the two branches sigma_up/(sigma_low+sigma_up)
	// so the sample mean converges to Mean. Incompatible with truncation.
	// Without it, half the samples fall on each side of the mean.
	ConserveMean bool
}

// Unbounded returns an AsymConfig with no truncation.
func Unbounded(mean, sigmaLow, sigmaUp float64) AsymConfig {
	return AsymConfig{
		Mean:     mean,
		SigmaLow: sigmaLow,
		SigmaUp:  sigmaUp,
		Lower:    math.Inf(-1),
		Upper:    math.Inf(1),
	}
}

func (c AsymConfig) validate(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidParameter, n)
	}
	if c.SigmaLow < 0 || c.SigmaUp < 0 {
		return fmt.Errorf("%w: standard deviations must be non-negative, got [%g, %g]",
			ErrInvalidParameter, c.SigmaLow, c.SigmaUp)
	}
	if !(c.Lower < c.Upper) {
		return fmt.Errorf("%w: limits must be strictly increasing, got [%g, %g]",
			ErrInvalidParameter, c.Lower, c.Upper)
	}
	return nil
}

func (c AsymConfig) bounded() bool {
	return !math.IsInf(c.Lower, -1) || !math.IsInf(c.Upper, 1)
}

// Normal draws n samples from N(mean, sigma).
func Normal(mean, sigma float64, n int, src rand.Source) ([]float64, error) {
	if sigma < 0 {
		return nil, fmt.Errorf("%w: sigma must be non-negative, got %g", ErrInvalidParameter, sigma)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidParameter, n)
	}
	if sigma == 0 {
		return constant(mean, n), nil
	}
	dist := distuv.Normal{Mu: mean, Sigma: sigma, Src: src}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}

// Uniform draws n samples from U(min, max).
func Uniform(min, max float64, n int, src rand.Source) ([]float64, error) {
	if !(min < max) {
		return nil, fmt.Errorf("%w: uniform range must be strictly increasing, got [%g, %g]",
			ErrInvalidParameter, min, max)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidParameter, n)
	}
	dist := distuv.Uniform{Min: min, Max: max, Src: src}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}

// AsymNormal draws n samples from the split-normal distribution described
// by cfg. The density is N(mean, sigma_low) below the mean and
// N(mean, sigma_up) above it.
func AsymNormal(cfg AsymConfig, n int, src rand.Source) ([]float64, error) {
	if err := cfg.validate(n); err != nil {
		return nil, err
	}
	if cfg.ConserveMean && cfg.bounded() {
		return nil, fmt.Errorf("%w: mean conservation cannot be combined with truncation",
			ErrInvalidParameter)
	}

	if cfg.SigmaLow == 0 && cfg.SigmaUp == 0 {
		return constant(clamp(cfg.Mean, cfg.Lower, cfg.Upper), n), nil
	}

	rng := rand.New(src)
	if !cfg.bounded() {
		return asymUnbounded(cfg, n, rng), nil
	}
	return asymTruncated(cfg, n, rng), nil
}

func asymUnbounded(cfg AsymConfig, n int, rng *rand.Rand) []float64 {
	// Branch split: 0.5/0.5 keeps the mode at Mean; the mean-conserving
	// split weights each half by the opposite sigma.
	split := 0.5
	if cfg.ConserveMean {
		split = cfg.SigmaUp / (cfg.SigmaLow + cfg.SigmaUp)
	}

	out := make([]float64, n)
	for i := range out {
		if rng.Float64() >= split {
			out[i] = cfg.Mean + math.Abs(rng.NormFloat64())*cfg.SigmaUp
		} else {
			out[i] = cfg.Mean - math.Abs(rng.NormFloat64())*cfg.SigmaLow
		}
	}
	return out
}

// asymTruncated samples inside [Lower, Upper] by inverse-CDF sampling of
// the relevant normal branch. When the mean lies outside the limits only
// one branch contributes.
func asymTruncated(cfg AsymConfig, n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)

	// Mean at or below the window: only the upper branch overlaps it.
	if cfg.Mean <= cfg.Lower {
		truncatedFill(out, cfg.Mean, nonZero(cfg.SigmaUp, cfg.SigmaLow), cfg.Lower, cfg.Upper, rng)
		return out
	}
	// Mean at or above the window: only the lower branch overlaps it.
	if cfg.Mean >= cfg.Upper {
		truncatedFill(out, cfg.Mean, nonZero(cfg.SigmaLow, cfg.SigmaUp), cfg.Lower, cfg.Upper, rng)
		return out
	}

	distLow := distuv.Normal{Mu: cfg.Mean, Sigma: nonZero(cfg.SigmaLow, cfg.SigmaUp)}
	distUp := distuv.Normal{Mu: cfg.Mean, Sigma: nonZero(cfg.SigmaUp, cfg.SigmaLow)}

	yLow := distLow.CDF(cfg.Lower)
	yUp := distUp.CDF(cfg.Upper)

	// Probability mass of each branch inside the window decides how many
	// samples it receives.
	weightLow := 0.5 - yLow
	weightUp := yUp - 0.5
	split := weightLow / (weightLow + weightUp)

	for i := range out {
		if rng.Float64() < split {
			out[i] = distLow.Quantile(yLow + rng.Float64()*(0.5-yLow))
		} else {
			out[i] = distUp.Quantile(0.5 + rng.Float64()*(yUp-0.5))
		}
	}
	return out
}

func truncatedFill(out []float64, mean, sigma, lower, upper float64, rng *rand.Rand) {
	dist := distuv.Normal{Mu: mean, Sigma: sigma}
	yMin := dist.CDF(lower)
	yMax := dist.CDF(upper)
	for i := range out {
		out[i] = dist.Quantile(yMin + rng.Float64()*(yMax-yMin))
	}
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// nonZero substitutes the opposite branch's sigma for a degenerate one so
// the truncated inverse-CDF stays defined.
func nonZero(sigma, fallback float64) float64 {
	if sigma > 0 {
		return sigma
	}
	return fallback
}
