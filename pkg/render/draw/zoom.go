package draw

import (
	"math"

	"github.com/matzehuels/netgraph/pkg/errors"
)

// Zoom slider range.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	ZoomStep    = 0.1
	DefaultZoom = 1.0
)

// ClampZoom limits z to [MinZoom, MaxZoom]. Non-finite values reset to
// DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return DefaultZoom
	}
	return max(MinZoom, min(z, MaxZoom))
}

// StepZoom moves z by steps slider notches and clamps the result. The
// result is snapped to the slider grid.
func StepZoom(z float64, steps int) float64 {
	const notches = 1 / ZoomStep
	next := ClampZoom(z) + float64(steps)*ZoomStep
	return ClampZoom(math.Round(next*notches) / notches)
}

// ValidateZoom rejects zoom factors that cannot scale a drawing.
func ValidateZoom(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
		return errors.New(errors.ErrCodeInvalidZoom, "zoom %g must be a positive finite number", z)
	}
	return nil
}
