package filters

import (
	"math"

	"noise-obliterator/internal/buffer"
)

// gaussianKernel builds the normalized 2D weight table
// exp(-(dx^2+dy^2)/(2*sigma^2)) for a window of the given radius.
func gaussianKernel(radius int, sigma float64) [][]float64 {
	side := 2*radius + 1
	kernel := make([][]float64, side)
	sum := 0.0
	for ky := 0; ky < side; ky++ {
		kernel[ky] = make([]float64, side)
		for kx := 0; kx < side; kx++ {
			dx := float64(kx - radius)
			dy := float64(ky - radius)
			w := math.Exp(-(dx*dx + dy*dy) / (2 * sigma * sigma))
			kernel[ky][kx] = w
			sum += w
		}
	}
	for ky := 0; ky < side; ky++ {
		for kx := 0; kx < side; kx++ {
			kernel[ky][kx] /= sum
		}
	}
	return kernel
}

func gaussianFilter(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, radius int, sigma float64) {
	kernel := gaussianKernel(radius, sigma)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < src.Channels; c++ {
				sum := 0.0
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						sum += kernel[dy+radius][dx+radius] * float64(src.Sample(x+dx, y+dy, c))
					}
				}
				dst.Pix[off+c] = clamp255(sum)
			}
		}
	}
}
