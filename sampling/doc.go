// Package sampling draws Monte Carlo samples from the input distributions
// used for uncertainty propagation.
//
// Distributions:
//   - Normal: symmetric normal N(mean, sigma)
//   - AsymNormal: split normal, a piecewise combination of two normal
//     distributions with independent standard deviations below and above
//     the mean (discontinuous density at the mean)
//   - Uniform: uniform over [min, max]
//
// All draws consume an explicit, seedable random source. There is no
// package-level random state: callers construct a source with NewSource
// and pass it to every sampling call, which makes runs bit-for-bit
// reproducible for a fixed seed.
//
// Truncation confines samples to a [lower, upper] interval by inverse-CDF
// sampling between CDF(lower) and CDF(upper), so no draw is ever rejected
// and the cost per sample stays constant.
//
// Built on gonum.org/v1/gonum/stat/distuv for distribution math.
package sampling
