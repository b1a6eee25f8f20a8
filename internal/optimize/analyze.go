package optimize

import (
	"gonum.org/v1/gonum/stat"

	"noise-obliterator/internal/buffer"
	"noise-obliterator/internal/filters"
)

// ToneSuggestion is an automatic brightness/contrast recommendation derived
// from image statistics. Brightness and Contrast are normalized to [-1, 1];
// Offset and Factor are the corresponding affine-kernel knobs.
type ToneSuggestion struct {
	MeanLuminance float64 // [0, 1]
	StdDev        float64
	Brightness    float64
	Contrast      float64
	Offset        float64
	Factor        float64
}

// AnalyzeTone inspects the luminance distribution and suggests adjustments
// that pull the mean toward middle gray and the spread toward a moderate
// contrast. Dark images get a positive brightness push, washed-out images a
// contrast boost, harsh ones a reduction.
func AnalyzeTone(b *buffer.Buffer) ToneSuggestion {
	lum := make([]float64, b.Width*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			off := b.Offset(x, y)
			lum[y*b.Width+x] = (float64(b.Pix[off]) + float64(b.Pix[off+1]) + float64(b.Pix[off+2])) / (3 * 255)
		}
	}
	mean, std := stat.MeanStdDev(lum, nil)

	// Mid-gray target for brightness, moderate spread target for contrast.
	brightness := (0.5 - mean) * 2
	if brightness > 1 {
		brightness = 1
	} else if brightness < -1 {
		brightness = -1
	}

	var contrast float64
	switch {
	case std < 0.1:
		contrast = 0.5
	case std > 0.3:
		contrast = -0.3
	default:
		contrast = 0.1
	}

	return ToneSuggestion{
		MeanLuminance: mean,
		StdDev:        std,
		Brightness:    brightness,
		Contrast:      contrast,
		Offset:        brightness * 0.5 * 255,
		Factor:        contrastFactor(contrast),
	}
}

// Params converts the suggestion into the brightness/contrast kernel's
// parameter set.
func (t ToneSuggestion) Params() (filters.Params, error) {
	return filters.NewBrightnessContrast(t.Offset, t.Factor)
}

// contrastFactor maps a normalized contrast in [-1, 1] onto a multiplicative
// factor in [0.25, 4] so increases and decreases feel symmetric.
func contrastFactor(contrast float64) float64 {
	if contrast >= 0 {
		return 1 + contrast*3
	}
	return 1 / (1 - contrast*3)
}
