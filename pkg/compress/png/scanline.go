package png

import (
	"fmt"
	"image"
	"image/color"
)

// FilterNone is the only scanline filter emitted: bytes are stored unchanged.
const FilterNone = 0

// bytesPerPixel for 8-bit truecolor.
const bytesPerPixel = 3

// Pixel is one 8-bit RGB sample.
type Pixel struct {
	R, G, B uint8
}

// Raster is a row-major RGB pixel grid. Pixel (x, y) lives at index y*Width+x.
type Raster struct {
	Width  uint32
	Height uint32
	Pixels []Pixel
}

// NewRaster allocates a black raster of the given size.
func NewRaster(width, height uint32) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, int(width)*int(height)),
	}
}

// FromImage copies img into a new raster, dropping any alpha.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewRaster(uint32(b.Dx()), uint32(b.Dy()))
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			r.Pixels[i] = Pixel{R: c.R, G: c.G, B: c.B}
			i++
		}
	}
	return r
}

// At returns the pixel at column x, row y.
func (r *Raster) At(x, y uint32) Pixel {
	return r.Pixels[int(y)*int(r.Width)+int(x)]
}

// Set stores p at column x, row y.
func (r *Raster) Set(x, y uint32, p Pixel) {
	r.Pixels[int(y)*int(r.Width)+int(x)] = p
}

// Fill sets every pixel to p.
func (r *Raster) Fill(p Pixel) {
	for i := range r.Pixels {
		r.Pixels[i] = p
	}
}

// Validate checks the raster can be encoded.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidRaster)
	}
	if r.Width == 0 || r.Height == 0 {
		return fmt.Errorf("%w: zero dimension %dx%d", ErrInvalidRaster, r.Width, r.Height)
	}
	want := uint64(r.Width) * uint64(r.Height)
	if uint64(len(r.Pixels)) != want {
		return fmt.Errorf("%w: %d pixels for %dx%d (want %d)", ErrInvalidRaster, len(r.Pixels), r.Width, r.Height, want)
	}
	return nil
}

// stride is the length of one assembled scanline including the filter byte.
func (r *Raster) stride() int {
	return 1 + bytesPerPixel*int(r.Width)
}

// Assemble lays the raster out as PNG scanlines: one filter byte per row
// followed by R, G, B for each pixel, left to right.
func Assemble(r *Raster) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	stride := r.stride()
	out := make([]byte, int(r.Height)*stride)
	i := 0
	for y := 0; y < int(r.Height); y++ {
		row := out[y*stride : (y+1)*stride]
		row[0] = FilterNone
		for x := 1; x < stride; x += bytesPerPixel {
			p := r.Pixels[i]
			row[x] = p.R
			row[x+1] = p.G
			row[x+2] = p.B
			i++
		}
	}
	return out, nil
}
