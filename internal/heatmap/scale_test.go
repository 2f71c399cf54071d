// Copyright 2026 The Heatgrid Authors
// SPDX-License-Identifier: MIT

package heatmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale_LegacyDomain(t *testing.T) {
	l := DefaultLayout()
	domain := DomainFor(DomainLegacy, l.Buckets, []float64{1, 5, 10})
	assert.Equal(t, []float64{0, 8, 10}, domain)

	s := NewScale(domain, l.Colors)
	require.Len(t, s.Thresholds(), 8)

	assert.Equal(t, 0, s.Bucket(1))
	assert.Equal(t, 2, s.Bucket(5))
	assert.Equal(t, 8, s.Bucket(10))

	prev := -1
	for _, v := range []float64{1, 5, 10} {
		b := s.Bucket(v)
		assert.GreaterOrEqual(t, b, prev, "buckets must not decrease")
		prev = b
	}

	c, ok := s.Color(10)
	require.True(t, ok)
	assert.Equal(t, "#081d58", c)
}

func TestScale_ThresholdBelongsToUpperBucket(t *testing.T) {
	s := NewScale([]float64{0, 10}, []string{"a", "b"})
	require.Equal(t, []float64{5}, s.Thresholds())

	assert.Equal(t, 0, s.Bucket(4.999))
	assert.Equal(t, 1, s.Bucket(5))
	assert.Equal(t, 0, s.Bucket(-100))
	assert.Equal(t, 1, s.Bucket(100))
}

func TestScale_NaNAndEmpty(t *testing.T) {
	s := NewScale([]float64{math.NaN(), 1, 2}, []string{"a", "b"})
	assert.Equal(t, []float64{1, 2}, s.Domain())
	assert.Equal(t, -1, s.Bucket(math.NaN()))

	_, ok := s.Color(math.NaN())
	assert.False(t, ok)

	empty := NewScale(nil, []string{"a", "b"})
	assert.Equal(t, -1, empty.Bucket(1))
	assert.Empty(t, empty.Thresholds())
}

func TestScale_SingleColor(t *testing.T) {
	s := NewScale([]float64{1, 2, 3}, []string{"only"})
	c, ok := s.Color(100)
	require.True(t, ok)
	assert.Equal(t, "only", c)
}

func TestDomainFor(t *testing.T) {
	vals := []float64{4, math.NaN(), 2, 9}

	assert.Equal(t, []float64{0, 8, 9}, DomainFor(DomainLegacy, 9, vals))
	assert.Equal(t, []float64{2, 9}, DomainFor(DomainExtent, 9, vals))
	assert.Equal(t, []float64{4, 2, 9}, DomainFor(DomainObserved, 9, vals))

	assert.Equal(t, []float64{0, 8}, DomainFor(DomainLegacy, 9, nil))
	assert.Nil(t, DomainFor(DomainExtent, 9, []float64{math.NaN()}))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{0, 8, 10}
	assert.InDelta(t, 0, quantile(sorted, 0), 1e-9)
	assert.InDelta(t, 8, quantile(sorted, 0.5), 1e-9)
	assert.InDelta(t, 10, quantile(sorted, 1), 1e-9)
	assert.InDelta(t, 16.0/9, quantile(sorted, 1.0/9), 1e-9)
}
