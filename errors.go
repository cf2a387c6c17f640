package uncertain

import (
	"github.com/metrolabs/uncertain/mcstat"
	"github.com/metrolabs/uncertain/sampling"
)

// ErrInvalidParameter reports malformed construction or evaluation
// parameters. Raised immediately, never deferred to evaluation.
var ErrInvalidParameter = sampling.ErrInvalidParameter

// ErrInsufficientSamples reports that too few valid trials remain after
// sentinel filtering to compute the requested coverage interval.
var ErrInsufficientSamples = mcstat.ErrInsufficientSamples
