// Package arboria implements axis-aligned binary decision trees and bagged
// random-forest ensembles over dense tabular data with real-valued features
// and binary class labels.
//
// The training pipeline is split across subpackages: dataset holds the
// immutable data view, split implements the best-split search, sampling
// provides bootstrap and subsample index generation, tree grows a single
// classifier and forest trains bagged ensembles in parallel.
package arboria

import "errors"

// Error kinds shared by every component. Failures are wrapped around one of
// these sentinels so callers can dispatch with errors.Is.
var (
	// ErrInvalidArgument reports a caller contract violation: wrong
	// dimensions, an out-of-range hyperparameter, a non-binary label, or an
	// undefined policy component reaching fit.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports index addressing outside a container.
	ErrOutOfRange = errors.New("index out of range")

	// ErrLogic reports an internal invariant violation or an unimplemented
	// branch being reached.
	ErrLogic = errors.New("internal logic error")
)
