// Package filters implements the denoising and enhancement kernels. Each
// kernel evaluates output pixels independently from border-replicated reads
// of its source, so whole-buffer and tiled execution produce identical
// results.
package filters

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter reports a filter or scheduler parameter outside its
// validated range. Validation happens before any pixel is touched.
var ErrInvalidParameter = errors.New("invalid parameter")

// Kind identifies one of the fixed filter algorithms. The set is closed:
// dispatch switches over it exhaustively.
type Kind int

const (
	Mean Kind = iota
	Gaussian
	Median
	Bilateral
	NonLocalMeans
	TotalVariation
	BrightnessContrast
	Sharpen
)

func (k Kind) String() string {
	switch k {
	case Mean:
		return "mean"
	case Gaussian:
		return "gaussian"
	case Median:
		return "median"
	case Bilateral:
		return "bilateral"
	case NonLocalMeans:
		return "nlm"
	case TotalVariation:
		return "tv"
	case BrightnessContrast:
		return "brightness-contrast"
	case Sharpen:
		return "sharpen"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Params is a tagged variant over the algorithm catalog. Each case carries
// only the knobs its kernel needs; construct through the per-algorithm
// constructors, which validate every knob up front.
type Params struct {
	kind Kind

	radius int // mean, gaussian, median, bilateral window; sharpen blur

	sigma        float64 // gaussian
	spatialSigma float64 // bilateral
	rangeSigma   float64 // bilateral

	searchRadius int     // non-local means
	patchRadius  int     // non-local means
	h            float64 // non-local means filtering strength

	lambda     float64 // total variation regularization weight
	iterations int     // total variation iteration budget
	step       float64 // total variation step size

	offset float64 // brightness
	factor float64 // contrast

	strength float64 // sharpen
}

// Kind returns the algorithm tag.
func (p Params) Kind() Kind { return p.kind }

func (p Params) String() string { return p.kind.String() }

// NewMean builds mean-filter parameters.
func NewMean(radius int) (Params, error) {
	p := Params{kind: Mean, radius: radius}
	return p, p.validate()
}

// NewGaussian builds gaussian-filter parameters.
func NewGaussian(radius int, sigma float64) (Params, error) {
	p := Params{kind: Gaussian, radius: radius, sigma: sigma}
	return p, p.validate()
}

// NewMedian builds median-filter parameters.
func NewMedian(radius int) (Params, error) {
	p := Params{kind: Median, radius: radius}
	return p, p.validate()
}

// NewBilateral builds bilateral-filter parameters.
func NewBilateral(radius int, spatialSigma, rangeSigma float64) (Params, error) {
	p := Params{kind: Bilateral, radius: radius, spatialSigma: spatialSigma, rangeSigma: rangeSigma}
	return p, p.validate()
}

// NewNonLocalMeans builds non-local-means parameters. h is the filtering
// strength applied to patch distances.
func NewNonLocalMeans(searchRadius, patchRadius int, h float64) (Params, error) {
	p := Params{kind: NonLocalMeans, searchRadius: searchRadius, patchRadius: patchRadius, h: h}
	return p, p.validate()
}

// NewTotalVariation builds total-variation parameters. iterations is a hard
// budget: the solver never exits early on convergence.
func NewTotalVariation(lambda float64, iterations int, step float64) (Params, error) {
	p := Params{kind: TotalVariation, lambda: lambda, iterations: iterations, step: step}
	return p, p.validate()
}

// NewBrightnessContrast builds the per-pixel affine transform
// clamp((v-128)*factor + 128 + offset, 0, 255): contrast pivots around
// mid-gray, then the brightness offset shifts. Any finite factor and offset
// are valid.
func NewBrightnessContrast(offset, factor float64) (Params, error) {
	p := Params{kind: BrightnessContrast, offset: offset, factor: factor}
	return p, p.validate()
}

// NewSharpen builds unsharp-mask parameters: radius sizes the mean blur,
// strength scales the added detail.
func NewSharpen(radius int, strength float64) (Params, error) {
	p := Params{kind: Sharpen, radius: radius, strength: strength}
	return p, p.validate()
}

func (p Params) validate() error {
	switch p.kind {
	case Mean, Median:
		if p.radius < 1 {
			return fmt.Errorf("%w: radius %d, must be >= 1", ErrInvalidParameter, p.radius)
		}
	case Gaussian:
		if p.radius < 1 {
			return fmt.Errorf("%w: radius %d, must be >= 1", ErrInvalidParameter, p.radius)
		}
		if !(p.sigma > 0) {
			return fmt.Errorf("%w: sigma %v, must be > 0", ErrInvalidParameter, p.sigma)
		}
	case Bilateral:
		if p.radius < 1 {
			return fmt.Errorf("%w: radius %d, must be >= 1", ErrInvalidParameter, p.radius)
		}
		if !(p.spatialSigma > 0) {
			return fmt.Errorf("%w: spatial sigma %v, must be > 0", ErrInvalidParameter, p.spatialSigma)
		}
		if !(p.rangeSigma > 0) {
			return fmt.Errorf("%w: range sigma %v, must be > 0", ErrInvalidParameter, p.rangeSigma)
		}
	case NonLocalMeans:
		if p.searchRadius < 1 {
			return fmt.Errorf("%w: search radius %d, must be >= 1", ErrInvalidParameter, p.searchRadius)
		}
		if p.patchRadius < 1 {
			return fmt.Errorf("%w: patch radius %d, must be >= 1", ErrInvalidParameter, p.patchRadius)
		}
		if !(p.h > 0) {
			return fmt.Errorf("%w: filtering strength %v, must be > 0", ErrInvalidParameter, p.h)
		}
	case TotalVariation:
		if !(p.lambda > 0) {
			return fmt.Errorf("%w: lambda %v, must be > 0", ErrInvalidParameter, p.lambda)
		}
		if p.iterations < 1 {
			return fmt.Errorf("%w: iterations %d, must be >= 1", ErrInvalidParameter, p.iterations)
		}
		if !(p.step > 0) {
			return fmt.Errorf("%w: step size %v, must be > 0", ErrInvalidParameter, p.step)
		}
	case BrightnessContrast:
		if math.IsNaN(p.offset) || math.IsInf(p.offset, 0) {
			return fmt.Errorf("%w: brightness offset %v, must be finite", ErrInvalidParameter, p.offset)
		}
		if math.IsNaN(p.factor) || math.IsInf(p.factor, 0) {
			return fmt.Errorf("%w: contrast factor %v, must be finite", ErrInvalidParameter, p.factor)
		}
	case Sharpen:
		if p.radius < 1 {
			return fmt.Errorf("%w: radius %d, must be >= 1", ErrInvalidParameter, p.radius)
		}
		if !(p.strength > 0) {
			return fmt.Errorf("%w: strength %v, must be > 0", ErrInvalidParameter, p.strength)
		}
	default:
		return fmt.Errorf("%w: unknown filter kind %d", ErrInvalidParameter, int(p.kind))
	}
	return nil
}

// EffectiveRadius is the farthest distance, in pixels, a kernel read can
// reach from an output pixel. The scheduler sizes tile halos with it.
func (p Params) EffectiveRadius() int {
	switch p.kind {
	case Mean, Gaussian, Median, Bilateral, Sharpen:
		return p.radius
	case NonLocalMeans:
		return p.searchRadius + p.patchRadius
	case TotalVariation:
		// Jacobi updates propagate one pixel per iteration.
		return p.iterations
	default:
		return 0
	}
}
