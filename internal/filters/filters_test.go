package filters

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noise-obliterator/internal/buffer"
	"noise-obliterator/internal/metrics"
)

func flatBuffer(t *testing.T, w, h, channels int, value uint8) *buffer.Buffer {
	t.Helper()
	b, err := buffer.NewEmpty(w, h, channels)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = value
	}
	return b
}

func noisyBuffer(t *testing.T, w, h, channels int, seed int64) *buffer.Buffer {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	b, err := buffer.NewEmpty(w, h, channels)
	require.NoError(t, err)
	for i := range b.Pix {
		b.Pix[i] = uint8(rng.Intn(256))
	}
	return b
}

func denoiseParams(t *testing.T) []Params {
	t.Helper()
	mean, err := NewMean(2)
	require.NoError(t, err)
	gaussian, err := NewGaussian(2, 1.5)
	require.NoError(t, err)
	median, err := NewMedian(1)
	require.NoError(t, err)
	bilateral, err := NewBilateral(2, 2.0, 30)
	require.NoError(t, err)
	nlm, err := NewNonLocalMeans(3, 1, 10)
	require.NoError(t, err)
	return []Params{mean, gaussian, median, bilateral, nlm}
}

func TestOutputShapeMatchesInput(t *testing.T) {
	tv, err := NewTotalVariation(0.5, 5, 0.25)
	require.NoError(t, err)
	bc, err := NewBrightnessContrast(10, 1.2)
	require.NoError(t, err)
	sharp, err := NewSharpen(1, 0.5)
	require.NoError(t, err)
	all := append(denoiseParams(t), tv, bc, sharp)

	for _, channels := range []int{3, 4} {
		src := noisyBuffer(t, 13, 9, channels, 7)
		for _, p := range all {
			out, err := Run(src, p)
			require.NoError(t, err, p.String())
			assert.Equal(t, src.Width, out.Width, p.String())
			assert.Equal(t, src.Height, out.Height, p.String())
			assert.Equal(t, src.Channels, out.Channels, p.String())
		}
	}
}

func TestSmoothersPreserveFlatImage(t *testing.T) {
	src := flatBuffer(t, 12, 10, 3, 137)
	for _, p := range denoiseParams(t) {
		out, err := Run(src, p)
		require.NoError(t, err, p.String())
		assert.True(t, buffer.Equal(src, out), "%s altered a constant image", p.String())
	}
}

func TestWindowMeanRadiusZeroIsIdentity(t *testing.T) {
	src := noisyBuffer(t, 8, 8, 3, 3)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			for c := 0; c < 3; c++ {
				assert.Equal(t, float64(src.Sample(x, y, c)), windowMean(src, x, y, c, 0))
			}
		}
	}
}

func TestGaussianTinySigmaApproachesIdentity(t *testing.T) {
	src := noisyBuffer(t, 16, 16, 3, 11)
	p, err := NewGaussian(2, 0.05)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)

	// With sigma this small the center weight dominates to within rounding.
	for i := range src.Pix {
		diff := int(src.Pix[i]) - int(out.Pix[i])
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1, "sample %d", i)
	}
}

func TestMedianRemovesSaltNoise(t *testing.T) {
	src := flatBuffer(t, 5, 5, 3, 80)
	require.NoError(t, src.Set(2, 2, []uint8{255, 255, 255}))

	p, err := NewMedian(1)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)

	px, err := out.At(2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint8{80, 80, 80}, px)
}

func TestBrightnessContrastClampsToRange(t *testing.T) {
	src := noisyBuffer(t, 10, 10, 3, 21)

	extreme, err := NewBrightnessContrast(500, 1)
	require.NoError(t, err)
	out, err := Run(src, extreme)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}

	crush, err := NewBrightnessContrast(-500, 1)
	require.NoError(t, err)
	out, err = Run(src, crush)
	require.NoError(t, err)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(0), v)
	}
}

func TestBrightnessContrastIdentity(t *testing.T) {
	src := noisyBuffer(t, 10, 10, 3, 23)
	p, err := NewBrightnessContrast(0, 1)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)
	assert.True(t, buffer.Equal(src, out))
}

func TestBrightnessContrastPassesAlphaThrough(t *testing.T) {
	src := noisyBuffer(t, 6, 6, 4, 29)
	p, err := NewBrightnessContrast(200, 3)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			assert.Equal(t, src.Sample(x, y, 3), out.Sample(x, y, 3))
		}
	}
}

func TestSharpenIsIdentityOnFlatImage(t *testing.T) {
	src := flatBuffer(t, 9, 9, 3, 120)
	p, err := NewSharpen(1, 1.5)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)
	assert.True(t, buffer.Equal(src, out))
}

func TestSharpenIncreasesEdgeContrast(t *testing.T) {
	// Vertical step edge: sharpening should push the two sides apart.
	src, err := buffer.NewEmpty(10, 10, 3)
	require.NoError(t, err)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(90)
			if x >= 5 {
				v = 170
			}
			require.NoError(t, src.Set(x, y, []uint8{v, v, v}))
		}
	}

	p, err := NewSharpen(1, 1.0)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)

	assert.Less(t, out.Sample(4, 5, 0), src.Sample(4, 5, 0))
	assert.Greater(t, out.Sample(5, 5, 0), src.Sample(5, 5, 0))
}

func TestTotalVariationReducesTVNorm(t *testing.T) {
	// Noisy step edge.
	rng := rand.New(rand.NewSource(5))
	src, err := buffer.NewEmpty(24, 24, 3)
	require.NoError(t, err)
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			base := 60
			if x >= 12 {
				base = 200
			}
			v := base + rng.Intn(61) - 30
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			require.NoError(t, src.Set(x, y, []uint8{uint8(v), uint8(v), uint8(v)}))
		}
	}

	p, err := NewTotalVariation(4.0, 30, 0.25)
	require.NoError(t, err)
	out, err := Run(src, p)
	require.NoError(t, err)

	assert.Less(t, metrics.TotalVariationNorm(out), metrics.TotalVariationNorm(src))
}

func TestApplyValidatesInputs(t *testing.T) {
	src := noisyBuffer(t, 8, 8, 3, 1)
	p, err := NewMean(1)
	require.NoError(t, err)

	smaller, err := buffer.NewEmpty(4, 4, 3)
	require.NoError(t, err)
	err = Apply(src, buffer.Bounds(8, 8), smaller, p)
	assert.ErrorIs(t, err, buffer.ErrDimensionMismatch)

	dst := buffer.NewLike(src)
	err = Apply(src, buffer.Rect{X: 4, Y: 4, W: 8, H: 8}, dst, p)
	assert.ErrorIs(t, err, buffer.ErrOutOfBounds)

	err = Apply(src, buffer.Bounds(8, 8), dst, Params{kind: Mean, radius: 0})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBilateralPreservesSharpEdge(t *testing.T) {
	src, err := buffer.NewEmpty(12, 12, 3)
	require.NoError(t, err)
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			v := uint8(40)
			if x >= 6 {
				v = 220
			}
			require.NoError(t, src.Set(x, y, []uint8{v, v, v}))
		}
	}

	bilateral, err := NewBilateral(2, 2.0, 10)
	require.NoError(t, err)
	blurred, err := NewMean(2)
	require.NoError(t, err)

	outBilateral, err := Run(src, bilateral)
	require.NoError(t, err)
	outMean, err := Run(src, blurred)
	require.NoError(t, err)

	// Just left of the edge the bilateral result should stay much closer to
	// the dark side than a plain mean does.
	bilateralShift := int(outBilateral.Sample(5, 6, 0)) - 40
	meanShift := int(outMean.Sample(5, 6, 0)) - 40
	assert.Less(t, bilateralShift, meanShift)
}
