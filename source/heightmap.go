package source

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/voxelsplace/mcmodel/voxel"
)

// DefaultMaxHeight is the heightmap column limit and the grid height.
const DefaultMaxHeight = 48

// HeightFor maps an 8-bit luminance to a column height in [0, maxHeight].
func HeightFor(lum uint8, maxHeight int) int {
	h := int(lum) * maxHeight / 256
	if h < 0 {
		return 0
	}
	if h > maxHeight {
		return maxHeight
	}
	return h
}

// Luminance is the ITU-R 601 luma of c's straight colour. Alpha is ignored,
// so a transparent white pixel still reads as 255.
func Luminance(c color.Color) uint8 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint8((19595*uint32(n.R) + 38470*uint32(n.G) + 7471*uint32(n.B) + 1<<15) >> 16)
}

// Heightmap turns img into filled columns. Pixel (x, z) of an image W
// pixels wide and D pixels tall fills y = 0 .. HeightFor(lum)-1 in a
// W x maxHeight x D grid.
func Heightmap(img image.Image, maxHeight int) (*voxel.Set, error) {
	if maxHeight <= 0 {
		return nil, fmt.Errorf("max height must be positive, got %d", maxHeight)
	}
	b := img.Bounds()
	set, err := voxel.NewSet(voxel.Dimensions{W: b.Dx(), H: maxHeight, D: b.Dy()})
	if err != nil {
		return nil, malformed(err, "read heightmap")
	}
	for z := 0; z < b.Dy(); z++ {
		for x := 0; x < b.Dx(); x++ {
			top := HeightFor(Luminance(img.At(b.Min.X+x, b.Min.Y+z)), maxHeight)
			for y := 0; y < top; y++ {
				_ = set.Add(voxel.Cell{X: x, Y: y, Z: z})
			}
		}
	}
	return set, nil
}

// ReadHeightmap decodes an image and converts it with Heightmap.
func ReadHeightmap(r io.Reader, maxHeight int) (*voxel.Set, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: supported formats are %s, convert the heightmap to PNG", ErrUnsupportedImage, SupportedImageFormats)
		}
		return nil, malformed(err, "decode heightmap")
	}
	set, err := Heightmap(img, maxHeight)
	if err != nil {
		return nil, errors.Wrapf(err, "%s heightmap", format)
	}
	return set, nil
}

// ParseHeightmap is ReadHeightmap over in-memory image bytes.
func ParseHeightmap(data []byte, maxHeight int) (*voxel.Set, error) {
	return ReadHeightmap(bytes.NewReader(data), maxHeight)
}
