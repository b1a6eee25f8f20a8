package filters

import "noise-obliterator/internal/buffer"

// meanFilter replaces each sample with the arithmetic average of the square
// window around it, per channel, with border replication at the edges.
func meanFilter(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, radius int) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < src.Channels; c++ {
				dst.Pix[off+c] = clamp255(windowMean(src, x, y, c, radius))
			}
		}
	}
}

// windowMean averages channel c over the (2*radius+1)^2 window centered at
// (x, y). Radius 0 degenerates to the center sample itself.
func windowMean(src *buffer.Buffer, x, y, c, radius int) float64 {
	sum := 0.0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			sum += float64(src.Sample(x+dx, y+dy, c))
		}
	}
	side := 2*radius + 1
	return sum / float64(side*side)
}
