package png

import "errors"

var (
	// ErrInvalidRaster reports a raster whose pixel count does not match its
	// dimensions, or whose width or height is zero.
	ErrInvalidRaster = errors.New("png: invalid raster")
	// ErrChunkTooLarge reports a payload that does not fit the 32-bit length field.
	ErrChunkTooLarge = errors.New("png: chunk too large")
)
