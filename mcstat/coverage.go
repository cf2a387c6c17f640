package mcstat

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OneSigma is the coverage of the 1-sigma interval of a normal
// distribution. The split-normal algebra of the uncertain package is
// defined at this coverage.
const OneSigma = 0.6827

// ErrInsufficientSamples reports that too few valid samples remain to
// compute the requested coverage interval.
var ErrInsufficientSamples = errors.New("mcstat: insufficient valid samples")

// Summary is the reduction of one output sample population.
type Summary struct {
	Mean         float64
	MostProbable float64
	Lower        float64 // lower bound of the shortest coverage interval
	Upper        float64 // upper bound of the shortest coverage interval
	Coverage     float64

	// InvalidFraction is the share of trials that produced a NaN or Inf
	// sentinel and were excluded from the statistics.
	InvalidFraction float64

	Trials int
	Valid  int
}

// Valid filters the non-finite sentinels out of samples, returning the
// finite values (sorted ascending) and the invalid count.
func Valid(samples []float64) (sorted []float64, invalid int) {
	sorted = make([]float64, 0, len(samples))
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			invalid++
			continue
		}
		sorted = append(sorted, v)
	}
	sort.Float64s(sorted)
	return sorted, invalid
}

// CDF computes the empirical cumulative distribution of the samples: the
// values sorted ascending, paired with a uniform grid of cumulative
// fractions from 0 to 1. More samples approximate the continuous CDF
// better.
func CDF(samples []float64) (sorted, cum []float64) {
	sorted = append([]float64(nil), samples...)
	sort.Float64s(sorted)

	cum = make([]float64, len(sorted))
	if len(sorted) < 2 {
		return sorted, cum
	}
	step := 1 / float64(len(sorted)-1)
	for i := range cum {
		cum[i] = float64(i) * step
	}
	return sorted, cum
}

// ShortestCoverage finds the shortest interval containing at least a
// `coverage` fraction of the sorted samples. The window width is
// ceil(coverage*len(sorted)) samples; the window minimizing upper-lower
// wins.
func ShortestCoverage(sorted []float64, coverage float64) (lower, upper float64, err error) {
	if coverage <= 0 || coverage > 1 {
		return 0, 0, fmt.Errorf("mcstat: coverage must be in (0, 1], got %g", coverage)
	}
	m := len(sorted)
	if m < 2 {
		return 0, 0, fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientSamples, m)
	}

	window := int(math.Ceil(coverage * float64(m)))
	if window < 2 {
		window = 2
	}
	if window > m {
		window = m
	}

	best := 0
	bestWidth := math.Inf(1)
	for i := 0; i+window-1 < m; i++ {
		if w := sorted[i+window-1] - sorted[i]; w < bestWidth {
			bestWidth = w
			best = i
		}
	}
	return sorted[best], sorted[best+window-1], nil
}

// MostProbable estimates the mode of the samples restricted to
// [lower, upper]: a histogram with sqrt(k) bins over the interval, taking
// the left edge of the fullest bin. Restricting to the coverage interval
// forces the reported center inside it.
func MostProbable(sorted []float64, lower, upper float64) float64 {
	lo := sort.SearchFloat64s(sorted, lower)
	hi := sort.SearchFloat64s(sorted, math.Nextafter(upper, math.Inf(1)))
	inside := sorted[lo:hi]

	k := len(inside)
	if k == 0 {
		return lower
	}
	if upper == lower {
		return lower
	}

	bins := int(math.Ceil(math.Sqrt(float64(k))))
	width := (upper - lower) / float64(bins)

	counts := make([]int, bins)
	for _, v := range inside {
		b := int((v - lower) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	argmax := 0
	for b, c := range counts {
		if c > counts[argmax] {
			argmax = b
		}
	}
	return lower + float64(argmax)*width
}

// Summarize reduces a raw output sample population: sentinels are
// filtered, the mean and shortest coverage interval are computed over the
// valid samples, and the invalid fraction is reported. minValid is the
// smallest acceptable number of valid samples.
func Summarize(samples []float64, coverage float64, minValid int) (Summary, error) {
	if minValid < 2 {
		minValid = 2
	}
	sorted, invalid := Valid(samples)
	if len(sorted) < minValid {
		return Summary{}, fmt.Errorf("%w: %d valid of %d trials, need %d",
			ErrInsufficientSamples, len(sorted), len(samples), minValid)
	}

	lower, upper, err := ShortestCoverage(sorted, coverage)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Mean:            stat.Mean(sorted, nil),
		MostProbable:    MostProbable(sorted, lower, upper),
		Lower:           lower,
		Upper:           upper,
		Coverage:        coverage,
		InvalidFraction: float64(invalid) / float64(len(samples)),
		Trials:          len(samples),
		Valid:           len(sorted),
	}, nil
}
