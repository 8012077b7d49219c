package segment

import "fmt"

// Dice returns the Dice Similarity Coefficient of two same-shaped binary
// masks: 2*|A∩B| / (|A|+|B|). Two empty masks score 1.0; if exactly one
// mask is empty the score is 0.0.
// It returns error if either mask is nil or the masks differ in shape.
func Dice(a, b *Mask) (float64, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("invalid mask supplied")
	}

	aw, ah := a.Bounds()
	bw, bh := b.Bounds()
	if aw != bw || ah != bh {
		return 0, fmt.Errorf("mask shape mismatch: [%d x %d] != [%d x %d]", aw, ah, bw, bh)
	}

	na, nb := a.Count(), b.Count()
	if na == 0 && nb == 0 {
		return 1.0, nil
	}
	if na == 0 || nb == 0 {
		return 0.0, nil
	}

	var inter int
	for y := 0; y < ah; y++ {
		for x := 0; x < aw; x++ {
			if a.At(x, y) && b.At(x, y) {
				inter++
			}
		}
	}

	return 2.0 * float64(inter) / float64(na+nb), nil
}
