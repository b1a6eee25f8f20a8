// Package optimize searches a bounded catalog of filter configurations for
// the one that best improves a quality score, and derives automatic tonal
// adjustments from image statistics.
package optimize

import (
	"fmt"

	"noise-obliterator/internal/filters"
)

// Candidate pairs a display name with a validated parameter set.
type Candidate struct {
	Name   string
	Params filters.Params
}

// Catalog is the fixed candidate set one optimization run enumerates.
// The search is bounded: each candidate is evaluated exactly once.
type Catalog []Candidate

// DefaultCatalog sweeps a small grid over every denoising algorithm.
// All parameter sets are pre-validated, so construction cannot fail.
func DefaultCatalog() Catalog {
	var catalog Catalog
	add := func(name string, p filters.Params, err error) {
		if err != nil {
			panic("optimize: default catalog entry " + name + ": " + err.Error())
		}
		catalog = append(catalog, Candidate{Name: name, Params: p})
	}

	for _, radius := range []int{1, 2} {
		p, err := filters.NewMean(radius)
		add(fmt.Sprintf("mean-r%d", radius), p, err)
	}
	for _, sigma := range []float64{0.8, 1.5, 2.5} {
		p, err := filters.NewGaussian(2, sigma)
		add(fmt.Sprintf("gaussian-s%.1f", sigma), p, err)
	}
	for _, radius := range []int{1, 2} {
		p, err := filters.NewMedian(radius)
		add(fmt.Sprintf("median-r%d", radius), p, err)
	}
	for _, rangeSigma := range []float64{20, 30, 50} {
		p, err := filters.NewBilateral(3, 2.0, rangeSigma)
		add(fmt.Sprintf("bilateral-r%.0f", rangeSigma), p, err)
	}
	for _, h := range []float64{8, 12} {
		p, err := filters.NewNonLocalMeans(5, 2, h)
		add(fmt.Sprintf("nlm-h%.0f", h), p, err)
	}
	for _, lambda := range []float64{0.1, 0.5} {
		p, err := filters.NewTotalVariation(lambda, 20, 0.25)
		add(fmt.Sprintf("tv-l%.1f", lambda), p, err)
	}
	return catalog
}
