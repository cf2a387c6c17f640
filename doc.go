// Package uncertain propagates measurement uncertainties through
// arithmetic expressions using the Monte Carlo method of GUM Supplement 1
// (JCGM 101).
//
// A Value is an immutable quantity
//
//	x = nominal - sigma_low + sigma_up
//
// whose probability distribution is, by default, a split normal: below
// the nominal value it falls off with sigma_low, above with sigma_up.
// Symmetric normal and uniform distributions are available through the
// dedicated constructors, and a distribution can be truncated to an
// interval with WithLimits.
//
// Values combine into lazy expression trees:
//
//	x, _ := uncertain.New(1.0, 0.5, 0.3)
//	y, _ := uncertain.NewNormal(2.0, 0.1)
//	res, _ := uncertain.Evaluate(x.Div(x.Add(y)), uncertain.WithSeed(42))
//
// Nothing is sampled until Evaluate runs. Each distinct Value in an
// expression is sampled exactly once per run, so a Value appearing in
// several places contributes the same per-trial draw everywhere: x-x is
// exactly zero and x/x exactly one in every trial.
//
// Per-trial numeric failures (sqrt of a negative, log of a non-positive,
// 0/0) become NaN sentinels instead of aborting the run; the Result
// reports the fraction of invalid trials so callers can judge how much to
// trust the interval.
package uncertain
