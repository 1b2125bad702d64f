// Package source loads voxel occupancy sets from the supported inputs:
// structured voxel JSON, heightmap images, VOPL chunks and VPI18 streams.
package source

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingInput means the input file does not exist.
	ErrMissingInput = errors.New("input not found")

	// ErrUnsupportedImage means the heightmap could not be decoded by any
	// registered image codec.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrMalformedInput means the input was read but its content is invalid.
	ErrMalformedInput = errors.New("malformed input")
)

// SupportedImageFormats lists the heightmap formats this build can decode.
const SupportedImageFormats = "png, gif, jpeg, bmp, tiff, webp"

// malformed tags err as ErrMalformedInput while keeping err in the chain.
func malformed(err error, what string) error {
	return fmt.Errorf("%s: %w: %w", what, ErrMalformedInput, err)
}
