package filters

import (
	"math"

	"noise-obliterator/internal/buffer"
)

// bilateralFilter computes an edge-preserving weighted average: each
// neighbor's weight is the product of a spatial gaussian on its offset and a
// range gaussian on its color distance from the center pixel. Neighbors that
// look different contribute little, so edges survive the smoothing.
func bilateralFilter(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, radius int, spatialSigma, rangeSigma float64) {
	colors := colorChannels(src)
	spatial := gaussianKernel(radius, spatialSigma)
	twoRangeSq := 2 * rangeSigma * rangeSigma

	center := make([]float64, colors)
	sums := make([]float64, colors)

	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			for c := 0; c < colors; c++ {
				center[c] = float64(src.Sample(x, y, c))
				sums[c] = 0
			}
			weightSum := 0.0

			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					// Mean squared color difference drives the range weight.
					dist := 0.0
					for c := 0; c < colors; c++ {
						d := center[c] - float64(src.Sample(x+dx, y+dy, c))
						dist += d * d
					}
					dist /= float64(colors)

					w := spatial[dy+radius][dx+radius] * math.Exp(-dist/twoRangeSq)
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
