package m3

import (
	"github.com/pkg/errors"
)

var (
	// Reprocessed conflicts no longer map onto a range of base, so the base
	// can't be shown between markers.
	ErrIncompatibleOptions = errors.New("m3: can't reprocess and show base")

	// The elements of base, a and b are not all of one concrete type.
	ErrHeterogeneousInput = errors.New("m3: elements of differing types")

	// A region outside the known set, or a classification the algorithm
	// should never reach. Signals a bug, not bad input.
	ErrInvalidRegion = errors.New("m3: invalid merge region")

	// The element kind can't build the lines a renderer needs.
	ErrNotRenderable = errors.New("m3: element kind can't render lines")

	ErrUnknownMatcher = errors.New("m3: unknown matcher")
)
