// Package segment provides HSV color threshold segmentation of ball
// images into binary masks and Dice similarity scoring of masks.
package segment

import (
	"fmt"
	"image"
	"image/color"
)

// Mask is a binary image mask.
type Mask struct {
	w    int
	h    int
	bits []bool
}

// NewMask creates a new all-background mask with the given dimensions.
// It returns error if either dimension is not positive.
func NewMask(w, h int) (*Mask, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid mask dimensions: [%d x %d]", w, h)
	}

	return &Mask{
		w:    w,
		h:    h,
		bits: make([]bool, w*h),
	}, nil
}

// Bounds returns mask width and height.
func (m *Mask) Bounds() (w, h int) {
	return m.w, m.h
}

// At reports whether the pixel at (x, y) is foreground.
// Pixels outside the mask are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return false
	}
	return m.bits[y*m.w+x]
}

// Set marks the pixel at (x, y) as foreground or background.
// Pixels outside the mask are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return
	}
	m.bits[y*m.w+x] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	var n int
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	bits := make([]bool, len(m.bits))
	copy(bits, m.bits)

	return &Mask{w: m.w, h: m.h, bits: bits}
}

// Gray renders the mask as a grayscale image: foreground white, background black.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.w, m.h))
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// MaskFromImage creates a mask from an image: any pixel with a luma value
// above 127 is foreground.
func MaskFromImage(img image.Image) (*Mask, error) {
	if img == nil {
		return nil, fmt.Errorf("invalid image supplied")
	}

	b := img.Bounds()
	m, err := NewMask(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			m.Set(x-b.Min.X, y-b.Min.Y, c.Y > 127)
		}
	}

	return m, nil
}
