package filters

import (
	"math"

	"noise-obliterator/internal/buffer"
)

// nonLocalMeans weights every candidate pixel in the search window by the
// similarity of the patch around it to the patch around the target pixel:
// weight = exp(-patchDistance/h^2), where patchDistance is the mean squared
// color difference over the patch. The output is the normalized weighted
// average of candidate center values. The target's own patch has distance
// zero, so the center candidate always contributes at full weight.
func nonLocalMeans(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, searchRadius, patchRadius int, h float64) {
	colors := colorChannels(src)
	hSq := h * h
	sums := make([]float64, colors)

	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			for c := range sums {
				sums[c] = 0
			}
			weightSum := 0.0

			for dy := -searchRadius; dy <= searchRadius; dy++ {
				for dx := -searchRadius; dx <= searchRadius; dx++ {
					dist := patchDistance(src, x, y, x+dx, y+dy, patchRadius, colors)
					w := math.Exp(-dist / hSq)
					for c := 0; c < colors; c++ {
						sums[c] += float64(src.Sample(x+dx, y+dy, c)) * w
					}
					weightSum += w
				}
			}

			off := dst.Offset(x, y)
			for c := 0; c < colors; c++ {
				dst.Pix[off+c] = clamp255(sums[c] / weightSum)
			}
			if src.Channels > colors {
				dst.Pix[off+3] = src.Sample(x, y, 3)
			}
		}
	}
}

// patchDistance is the mean squared color difference between the patches
// centered at (ax, ay) and (bx, by).
func patchDistance(src *buffer.Buffer, ax, ay, bx, by, patchRadius, colors int) float64 {
	sum := 0.0
	for py := -patchRadius; py <= patchRadius; py++ {
		for px := -patchRadius; px <= patchRadius; px++ {
			for c := 0; c < colors; c++ {
				d := float64(src.Sample(ax+px, ay+py, c)) - float64(src.Sample(bx+px, by+py, c))
				sum += d * d
			}
		}
	}
	side := 2*patchRadius + 1
	return sum / float64(side*side*colors)
}
