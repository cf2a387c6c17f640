package sampling

import "errors"

// ErrInvalidParameter reports malformed distribution parameters:
// negative standard deviations, a non-positive trial count, or limits
// that are not strictly increasing.
var ErrInvalidParameter = errors.New("sampling: invalid parameter")
