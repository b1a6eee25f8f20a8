package filters

import "noise-obliterator/internal/buffer"

// brightnessContrast applies the per-pixel affine transform
// clamp((v-128)*factor + 128 + offset, 0, 255) to every color channel.
// Contrast pivots around mid-gray so a factor change does not shift overall
// brightness.
// An alpha channel passes through unchanged.
func brightnessContrast(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, offset, factor float64) {
	colors := colorChannels(src)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < colors; c++ {
				v := float64(src.Sample(x, y, c))
				dst.Pix[off+c] = clamp255((v-128)*factor + 128 + offset)
			}
			if src.Channels > colors {
				dst.Pix[off+3] = src.Sample(x, y, 3)
			}
		}
	}
}
