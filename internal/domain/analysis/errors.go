package analysis

import "github.com/baller70/shotform/internal/domain/tier"

// ErrUnknownTier is returned when the request names no valid tier.
var ErrUnknownTier = tier.ErrUnknownTier
