package filters

import (
	"math"

	"noise-obliterator/internal/buffer"
)

// gradEps avoids division by zero in the lagged-diffusivity coefficients.
const gradEps = 1e-10

// totalVariation runs a fixed-point iteration of the lagged-diffusivity
// scheme for min (1/2)||u-f||^2 + lambda*TV(u). Every iteration recomputes
// each pixel from the previous iterate's four-neighborhood (Jacobi update),
// so influence travels exactly one pixel per iteration and a halo equal to
// the iteration count keeps tiled output identical to whole-buffer output.
// The iteration count is a hard budget; there is no convergence exit.
func totalVariation(src *buffer.Buffer, rect buffer.Rect, dst *buffer.Buffer, lambda float64, iterations int, step float64) {
	colors := colorChannels(src)
	w, h := src.Width, src.Height
	k := lambda * step

	// f is the noisy observation, u the current iterate, next the one being
	// built. One float plane per color channel, full source extent.
	f := make([][]float64, colors)
	u := make([][]float64, colors)
	next := make([][]float64, colors)
	for c := 0; c < colors; c++ {
		f[c] = make([]float64, w*h)
		u[c] = make([]float64, w*h)
		next[c] = make([]float64, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := float64(src.Sample(x, y, c))
				f[c][y*w+x] = v
				u[c][y*w+x] = v
			}
		}
	}

	at := func(plane []float64, x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return plane[y*w+x]
	}

	for it := 0; it < iterations; it++ {
		for c := 0; c < colors; c++ {
			plane := u[c]
			out := next[c]
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					here := at(plane, x, y)
					down := at(plane, x, y+1)
					up := at(plane, x, y-1)
					right := at(plane, x+1, y)
					left := at(plane, x-1, y)

					// One diffusivity per neighbor, from the gradient
					// magnitude evaluated at the shared cell face.
					co1 := diffusivity(down-here, (at(plane, x+1, y)-at(plane, x-1, y))/2)
					co2 := diffusivity(here-up, (at(plane, x+1, y-1)-at(plane, x-1, y-1))/2)
					co3 := diffusivity(right-here, (at(plane, x, y+1)-at(plane, x, y-1))/2)
					co4 := diffusivity(here-left, (at(plane, x-1, y+1)-at(plane, x-1, y-1))/2)

					num := f[c][y*w+x] + k*(co1*down+co2*up+co3*right+co4*left)
					den := 1 + k*(co1+co2+co3+co4)
					out[y*w+x] = num / den
				}
			}
		}
		for c := 0; c < colors; c++ {
			u[c], next[c] = next[c], u[c]
		}
	}

	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			off := dst.Offset(x, y)
			for c := 0; c < colors; c++ {
				dst.Pix[off+c] = clamp255(u[c][y*w+x])
			}
			if src.Channels > colors {
				dst.Pix[off+3] = src.Sample(x, y, 3)
			}
		}
	}
}

func diffusivity(d1, d2 float64) float64 {
	return 1 / (math.Sqrt(d1*d1+d2*d2) + gradEps)
}
