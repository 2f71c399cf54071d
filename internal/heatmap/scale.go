// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Scale is a quantile color scale: the sorted domain is cut into len(colors)
// equally populated buckets and each bucket maps to one palette entry.
type Scale struct {
	domain     []float64
	thresholds []float64
	colors     []string
}

// NewScale builds a quantile scale over domain. NaN entries in the domain
// are dropped before sorting.
func NewScale(domain []float64, colors []string) *Scale {
	d := dropNaN(domain)
	sort.Float64s(d)

	s := &Scale{domain: d, colors: slices.Clone(colors)}
	k := len(colors)
	if len(d) == 0 || k < 2 {
		return s
	}
	s.thresholds = make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		s.thresholds = append(s.thresholds, quantile(d, float64(i)/float64(k)))
	}
	return s
}

// Bucket returns the palette index for v, or -1 when v is NaN or the scale
// has an empty domain or palette.
func (s *Scale) Bucket(v float64) int {
	if math.IsNaN(v) || len(s.colors) == 0 || len(s.domain) == 0 {
		return -1
	}
	// Right bisection: a value equal to a threshold belongs to the upper
	// bucket.
	return sort.Search(len(s.thresholds), func(i int) bool { return v < s.thresholds[i] })
}

// Color returns the palette entry for v and whether v has a color.
func (s *Scale) Color(v float64) (string, bool) {
	b := s.Bucket(v)
	if b < 0 {
		return "", false
	}
	return s.colors[b], true
}

// Thresholds returns the bucket boundaries.
func (s *Scale) Thresholds() []float64 {
	return slices.Clone(s.thresholds)
}

// Domain returns the sorted domain the scale was built from.
func (s *Scale) Domain() []float64 {
	return slices.Clone(s.domain)
}

// Colors returns the palette.
func (s *Scale) Colors() []string {
	return slices.Clone(s.colors)
}

// DomainFor builds the scale domain for the given mode from the observed
// values. NaN values are ignored.
//
// DomainLegacy mixes a bucket index with a data value, so small values
// crowd into the lowest buckets.
func DomainFor(mode DomainMode, buckets int, vals []float64) []float64 {
	obs := dropNaN(vals)
	switch mode {
	case DomainExtent:
		if len(obs) == 0 {
			return nil
		}
		return []float64{floats.Min(obs), floats.Max(obs)}
	case DomainObserved:
		return obs
	default:
		d := []float64{0, float64(buckets - 1)}
		if len(obs) > 0 {
			d = append(d, floats.Max(obs))
		}
		return d
	}
}

// quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks (R-7).
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1)*p + 1
	i := math.Floor(h)
	v := sorted[int(i)-1]
	if e := h - i; e != 0 {
		return v + e*(sorted[int(i)]-v)
	}
	return v
}

// dropNaN returns a copy of vs without NaN entries.
func dropNaN(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
