package filters

import (
	"slices"

	"noise-obliterator/internal/buffer"
)

// medianFilter replaces each sample with the order-statistic median of its
// window, independently per channel. Replicated border samples participate
// like any other window member.
func medianFilter(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, radius int) {
	side := 2*radius + 1
	window := make([]uint8, 0, side*side)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < src.Channels; c++ {
				window = window[:0]
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						window = append(window, src.Sample(x+dx, y+dy, c))
					}
				}
				slices.Sort(window)
				dst.Pix[off+c] = window[len(window)/2]
			}
		}
	}
}
