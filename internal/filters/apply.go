package filters

import (
	"fmt"

	"noise-obliterator/internal/buffer"
)

// Apply runs the kernel selected by p over rect of src, writing filtered
// pixels into the same coordinates of dst. src and dst must share shape and
// rect must lie inside them; dst pixels outside rect are left untouched.
// Neighbor reads use border replication, so content never causes a failure.
func Apply(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	if src.Width != dst.Width || src.Height != dst.Height || src.Channels != dst.Channels {
		return fmt.Errorf("%w: source %dx%dx%d vs destination %dx%dx%d",
			buffer.ErrDimensionMismatch,
			src.Width, src.Height, src.Channels,
			dst.Width, dst.Height, dst.Channels)
	}
	if rect.X < 0 || rect.Y < 0 || rect.W < 1 || rect.H < 1 ||
		rect.X+rect.W > src.Width || rect.Y+rect.H > src.Height {
		return fmt.Errorf("%w: rect (%d,%d %dx%d) in %dx%d",
			buffer.ErrOutOfBounds, rect.X, rect.Y, rect.W, rect.H, src.Width, src.Height)
	}

	switch p.kind {
	case Mean:
		meanFilter(src, rect, dst, p.radius)
	case Gaussian:
		gaussianFilter(src, rect, dst, p.radius, p.sigma)
	case Median:
		medianFilter(src, rect, dst, p.radius)
	case Bilateral:
		bilateralFilter(src, rect, dst, p.radius, p.spatialSigma, p.rangeSigma)
	case NonLocalMeans:
		nonLocalMeans(src, rect, dst, p.searchRadius, p.patchRadius, p.h)
	case TotalVariation:
		totalVariation(src, rect, dst, p.lambda, p.iterations, p.step)
	case BrightnessContrast:
		brightnessContrast(src, rect, dst, p.offset, p.factor)
	case Sharpen:
		sharpen(src, rect, dst, p.radius, p.strength)
	}
	return nil
}

// Run applies the kernel to the whole buffer and returns a fresh output
// buffer of identical shape.
func Run(src *buffer.Buffer, p Params) (*buffer.Buffer, error) {
	dst := buffer.NewLike(src)
	if err := Apply(src, buffer.Bounds(src.Width, src.Height), dst, p); err != nil {
		return nil, err
	}
	return dst, nil
}

// colorChannels is the number of channels participating in similarity and
// regularization math; a fourth (alpha) channel is carried through untouched
// by the edge-aware kernels.
func colorChannels(b *buffer.Buffer) int {
	if b.Channels > 3 {
		return 3
	}
	return b.Channels
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
