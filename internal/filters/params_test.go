package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsRejectInvalidParameters(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Params, error)
	}{
		{"mean radius 0", func() (Params, error) { return NewMean(0) }},
		{"mean negative radius", func() (Params, error) { return NewMean(-3) }},
		{"gaussian radius 0", func() (Params, error) { return NewGaussian(0, 1.0) }},
		{"gaussian sigma 0", func() (Params, error) { return NewGaussian(2, 0) }},
		{"gaussian sigma -1", func() (Params, error) { return NewGaussian(2, -1) }},
		{"gaussian sigma NaN", func() (Params, error) { return NewGaussian(2, math.NaN()) }},
		{"median radius 0", func() (Params, error) { return NewMedian(0) }},
		{"bilateral radius 0", func() (Params, error) { return NewBilateral(0, 2, 30) }},
		{"bilateral spatial sigma 0", func() (Params, error) { return NewBilateral(3, 0, 30) }},
		{"bilateral range sigma -2", func() (Params, error) { return NewBilateral(3, 2, -2) }},
		{"nlm search radius 0", func() (Params, error) { return NewNonLocalMeans(0, 2, 10) }},
		{"nlm patch radius 0", func() (Params, error) { return NewNonLocalMeans(5, 0, 10) }},
		{"nlm strength 0", func() (Params, error) { return NewNonLocalMeans(5, 2, 0) }},
		{"tv lambda 0", func() (Params, error) { return NewTotalVariation(0, 10, 0.25) }},
		{"tv lambda -1", func() (Params, error) { return NewTotalVariation(-1, 10, 0.25) }},
		{"tv iterations 0", func() (Params, error) { return NewTotalVariation(0.1, 0, 0.25) }},
		{"tv step 0", func() (Params, error) { return NewTotalVariation(0.1, 10, 0) }},
		{"brightness NaN", func() (Params, error) { return NewBrightnessContrast(math.NaN(), 1) }},
		{"contrast Inf", func() (Params, error) { return NewBrightnessContrast(0, math.Inf(1)) }},
		{"sharpen radius 0", func() (Params, error) { return NewSharpen(0, 1) }},
		{"sharpen strength 0", func() (Params, error) { return NewSharpen(1, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestConstructorsAcceptValidParameters(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Params, error)
		kind  Kind
	}{
		{"mean", func() (Params, error) { return NewMean(1) }, Mean},
		{"gaussian", func() (Params, error) { return NewGaussian(3, 1.2) }, Gaussian},
		{"median", func() (Params, error) { return NewMedian(2) }, Median},
		{"bilateral", func() (Params, error) { return NewBilateral(3, 2, 30) }, Bilateral},
		{"nlm", func() (Params, error) { return NewNonLocalMeans(5, 2, 10) }, NonLocalMeans},
		{"tv", func() (Params, error) { return NewTotalVariation(0.1, 30, 0.25) }, TotalVariation},
		{"brightness-contrast", func() (Params, error) { return NewBrightnessContrast(-10, 1.3) }, BrightnessContrast},
		{"sharpen", func() (Params, error) { return NewSharpen(1, 0.8) }, Sharpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
		})
	}
}

func TestEffectiveRadius(t *testing.T) {
	mean, err := NewMean(3)
	require.NoError(t, err)
	assert.Equal(t, 3, mean.EffectiveRadius())

	nlm, err := NewNonLocalMeans(5, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, nlm.EffectiveRadius())

	tv, err := NewTotalVariation(0.1, 12, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 12, tv.EffectiveRadius())

	bc, err := NewBrightnessContrast(5, 1.1)
	require.NoError(t, err)
	assert.Equal(t, 0, bc.EffectiveRadius())

	sharp, err := NewSharpen(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sharp.EffectiveRadius())
}
