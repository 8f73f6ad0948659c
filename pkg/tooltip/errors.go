package tooltip

import "errors"

// ErrGeometryUnavailable is reported when the trigger or surface cannot be
// measured, typically because ComputePosition ran before mount.
var ErrGeometryUnavailable = errors.New("tooltip: geometry unavailable")

// ErrInvalidPlacement is reported when a Positioner is configured with an
// unrecognized Side. The top formula is used instead.
var ErrInvalidPlacement = errors.New("tooltip: invalid placement")
