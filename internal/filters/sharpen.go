package filters

import "noise-obliterator/internal/buffer"

// sharpen applies an unsharp mask: the mean-blurred image is subtracted from
// the original to isolate detail, which is then added back scaled by
// strength. Alpha passes through unchanged.
func sharpen(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, radius int, strength float64) {
	colors := colorChannels(src)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < colors; c++ {
				v := float64(src.Sample(x, y, c))
				blurred := windowMean(src, x, y, c, radius)
				dst.Pix[off+c] = clamp255(v + strength*(v-blurred))
			}
			if src.Channels > colors {
				dst.Pix[off+3] = src.Sample(x, y, 3)
			}
		}
	}
}
