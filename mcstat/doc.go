// Package mcstat reduces Monte Carlo sample populations into summary
// statistics per GUM Supplement 1 (JCGM 101).
//
// The central operation is the shortest coverage interval: the narrowest
// interval containing at least a given fraction of the valid samples,
// found by sliding a fixed-width window over the sorted population.
// Summarize combines it with the sample mean, the most probable value,
// and the fraction of invalid (NaN/Inf sentinel) trials.
package mcstat
