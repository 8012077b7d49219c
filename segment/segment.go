package segment

import (
	"fmt"
	"image"
)

// HSV is a color in HSV space: hue in degrees [0, 360), saturation and
// value in [0, 1].
type HSV struct {
	H float64
	S float64
	V float64
}

// RGBToHSV converts an 8-bit RGB color to HSV.
func RGBToHSV(r, g, b uint8) HSV {
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	max := rf
	if gf > max {
		max = gf
	}
	if bf > max {
		max = bf
	}
	min := rf
	if gf < min {
		min = gf
	}
	if bf < min {
		min = bf
	}

	d := max - min

	var h float64
	switch {
	case d == 0:
		h = 0
	case max == rf:
		h = 60 * ((gf - bf) / d)
	case max == gf:
		h = 60 * ((bf-rf)/d + 2)
	default:
		h = 60 * ((rf-gf)/d + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if max > 0 {
		s = d / max
	}

	return HSV{H: h, S: s, V: max}
}

// Config configures a Segmenter: an inclusive HSV threshold range and the
// square kernel size used for morphological cleanup. A kernel size of 1
// disables morphology. When LowerBound.H > UpperBound.H the hue range
// wraps around 0 degrees (red hues straddle it).
type Config struct {
	LowerBound      HSV
	UpperBound      HSV
	MorphKernelSize int
}

// Segmenter converts color images into binary foreground masks via HSV
// range thresholding followed by morphological close and open.
type Segmenter struct {
	cfg Config
}

// New creates new Segmenter and returns it.
// It returns error if the morphology kernel size is not a positive odd number.
func New(cfg Config) (*Segmenter, error) {
	if cfg.MorphKernelSize < 1 || cfg.MorphKernelSize%2 == 0 {
		return nil, fmt.Errorf("invalid morphology kernel size: %d", cfg.MorphKernelSize)
	}

	return &Segmenter{cfg: cfg}, nil
}

// Segment converts img into a binary foreground mask.
// It returns error if img is nil or empty.
func (s *Segmenter) Segment(img image.Image) (*Mask, error) {
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
			r, g, bl, _ := img.At(x, y).RGBA()
			hsv := RGBToHSV(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			m.Set(x-b.Min.X, y-b.Min.Y, s.inRange(hsv))
		}
	}

	if s.cfg.MorphKernelSize > 1 {
		radius := s.cfg.MorphKernelSize / 2
		// close fills small holes, open removes speckle noise
		m = erode(dilate(m, radius), radius)
		m = dilate(erode(m, radius), radius)
	}

	return m, nil
}

func (s *Segmenter) inRange(c HSV) bool {
	lo, hi := s.cfg.LowerBound, s.cfg.UpperBound

	if c.S < lo.S || c.S > hi.S || c.V < lo.V || c.V > hi.V {
		return false
	}

	if lo.H <= hi.H {
		return c.H >= lo.H && c.H <= hi.H
	}
	// wrapped hue range
	return c.H >= lo.H || c.H <= hi.H
}

// dilate sets every pixel with a foreground pixel within the square
// neighbourhood of the given radius.
func dilate(m *Mask, radius int) *Mask {
	out := m.Clone()
	w, h := m.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.At(x, y) {
				continue
			}
			for dy := -radius; dy <= radius && !out.At(x, y); dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if m.At(x+dx, y+dy) {
						out.Set(x, y, true)
						break
					}
				}
			}
		}
	}
	return out
}

// erode clears every pixel with a background pixel within the square
// neighbourhood of the given radius.
func erode(m *Mask, radius int) *Mask {
	out := m.Clone()
	w, h := m.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.At(x, y) {
				continue
			}
			for dy := -radius; dy <= radius && out.At(x, y); dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if !m.At(x+dx, y+dy) {
						out.Set(x, y, false)
						break
					}
				}
			}
		}
	}
	return out
}
